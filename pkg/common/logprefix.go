// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package common

import (
	"fmt"
	"strings"
)

// ChangeLogPrefix returns a scoped-logger prefix in the format
// [change/<zoneName>/<changeID>], with every dot in zoneName replaced by
// an underscore, for correlating log lines with the record-set change
// being handled.
func ChangeLogPrefix(zoneName, changeID string) string {
	return fmt.Sprintf("[change/%s/%s]", strings.ReplaceAll(zoneName, ".", "_"), changeID)
}
