// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package gormrepo

import "recordchange/pkg/repository"

var (
	_ repository.RecordSetRepository    = (*RecordSetRepository)(nil)
	_ repository.RecordChangeRepository = (*ChangeJournalRepository)(nil)
	_ repository.BatchChangeRepository  = (*BatchChangeRepository)(nil)
)
