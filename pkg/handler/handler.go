// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package handler drives a single requested DNS record-set mutation
// (change.RecordSetChange) from Pending to a terminal Complete or Failed
// state: Validate -> Apply -> Verify -> Persist, then fans the outcome
// out to whatever batch sub-changes it fulfills.
package handler

import (
	"context"
	"time"

	"recordchange/pkg/change"
	"recordchange/pkg/common"
	"recordchange/pkg/connector"
	"recordchange/pkg/log"
	"recordchange/pkg/repository"
)

// Config tunes the verifier; zero values fall back to the §4.3 defaults.
type Config struct {
	MaxAttempts int
	Backoff     time.Duration

	// DryRun classifies a change and reports what would happen without
	// calling the connector's DnsUpdate or writing to any repository.
	DryRun bool
}

func (c Config) maxAttempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return DefaultMaxAttempts
}

func (c Config) backoff() time.Duration {
	if c.Backoff > 0 {
		return c.Backoff
	}
	return DefaultBackoff
}

// Handler is the Orchestrator (C4): it owns the capabilities the
// handler's state machine consumes and exposes the single entry point,
// Handle.
type Handler struct {
	Connector  connector.DnsConnector
	RecordSets repository.RecordSetRepository
	Changes    repository.RecordChangeRepository
	Batches    repository.BatchChangeRepository
	Config     Config
	sleeper    sleeper
}

// New builds a Handler from its capabilities, using the §4.3 verifier
// defaults unless cfg overrides them.
func New(conn connector.DnsConnector, recordSets repository.RecordSetRepository, changes repository.RecordChangeRepository, batches repository.BatchChangeRepository, cfg Config) *Handler {
	return &Handler{
		Connector:  conn,
		RecordSets: recordSets,
		Changes:    changes,
		Batches:    batches,
		Config:     cfg,
		sleeper:    realSleeper{},
	}
}

// Handle drives rsc through Validate -> Apply -> Verify -> Persist and
// returns it in its terminal status. It never returns an error for
// DNS-level or classification failures -- those are encoded in the
// returned change's Status and SystemMessage. An error return means an
// infrastructure fault occurred and rsc should be treated as still
// Pending for later redelivery. With Config.DryRun set, nothing is
// applied or persisted and rsc is returned unchanged.
func (h *Handler) Handle(ctx context.Context, rsc change.RecordSetChange) (change.RecordSetChange, error) {
	scoped := log.NewScopedLogger(common.ChangeLogPrefix(rsc.Zone.Name, rsc.ID), "")
	scoped.Info("handling %s %s %s", rsc.ChangeType, rsc.RecordSet.Type, rsc.RecordSet.Name)

	bypass, err := bypassApplies(ctx, h.RecordSets, rsc)
	if err != nil {
		scoped.Error("bypass check failed: %v", err)
		return rsc, err
	}

	if bypass {
		if h.Config.DryRun {
			scoped.Info("dry-run: bypass rule would apply, no write performed")
			return rsc, nil
		}
		scoped.Debug("bypass rule applied, skipping verify")
		return h.applyAndPersist(ctx, rsc, true, scoped)
	}

	status := classify(ctx, h.Connector, rsc)
	switch status.Outcome {
	case change.Failure:
		scoped.Warn("classify failed: %s", status.Message)
		if h.Config.DryRun {
			return rsc, nil
		}
		return h.persist(ctx, rsc, false, status.Message, scoped)
	case change.AlreadyApplied:
		scoped.Info("already applied")
		if h.Config.DryRun {
			return rsc, nil
		}
		return h.persist(ctx, rsc, true, "", scoped)
	}

	if h.Config.DryRun {
		scoped.Info("dry-run: would apply and verify, no write performed")
		return rsc, nil
	}
	return h.applyAndPersist(ctx, rsc, false, scoped)
}

// applyAndPersist runs APPLY, then (unless bypass) VERIFY, then
// PERSIST+fan-out, per the §4.4 state machine.
func (h *Handler) applyAndPersist(ctx context.Context, rsc change.RecordSetChange, bypass bool, scoped *log.ScopedLogger) (change.RecordSetChange, error) {
	if ctx.Err() != nil {
		return rsc, ctx.Err()
	}

	_, dnsErr := h.Connector.DnsUpdate(ctx, rsc)
	if dnsErr != nil {
		scoped.Warn("apply refused: %s", dnsErr.Message)
		return h.persist(ctx, rsc, false, dnsErr.Message, scoped)
	}

	if bypass {
		return h.persist(ctx, rsc, true, "", scoped)
	}

	verifyStatus := verify(ctx, h.Connector, rsc, h.Config.maxAttempts(), h.Config.backoff(), h.sleeper)
	if verifyStatus.IsFailure() {
		scoped.Warn("verify exhausted: %s", verifyStatus.Message)
		return h.persist(ctx, rsc, false, verifyStatus.Message, scoped)
	}
	scoped.Debug("verified")
	return h.persist(ctx, rsc, true, "", scoped)
}

// persist is PERSIST + fan-out: C5 then C6. A cancelled context aborts
// before any write so the change remains observably Pending.
func (h *Handler) persist(ctx context.Context, rsc change.RecordSetChange, succeeded bool, systemMessage string, scoped *log.ScopedLogger) (change.RecordSetChange, error) {
	if ctx.Err() != nil {
		return rsc, ctx.Err()
	}

	finalized, err := finalize(ctx, h.RecordSets, h.Changes, rsc, succeeded, systemMessage)
	if err != nil {
		scoped.Error("persist failed: %v", err)
		return rsc, err
	}

	if err := fanOutToBatches(ctx, h.Batches, finalized); err != nil {
		scoped.Error("batch fan-out failed: %v", err)
		return finalized, err
	}

	scoped.Info("finalized as %s", finalized.Status)
	return finalized, nil
}
