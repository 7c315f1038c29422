// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

// CalculateTableChecksum renders the table to a canonical text form and hashes
// it with SHA-256. Columns are sorted alphabetically so column order never
// affects the digest; row order is preserved because step order is content.
// Every cell is a string already, so canonicalization is total and resubmitting
// unchanged content always reproduces the same digest.
func CalculateTableChecksum(table view.TestCaseTable) string {
	columns := canonicalColumns(table)
	var builder strings.Builder
	for _, step := range table.Steps {
		for i, column := range columns {
			if i > 0 {
				builder.WriteByte('|')
			}
			value, _ := step.Field(column)
			builder.WriteString(column)
			builder.WriteByte('=')
			builder.WriteString(value)
		}
		builder.WriteByte('\n')
	}
	digest := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(digest[:])
}

func canonicalColumns(table view.TestCaseTable) []string {
	columns := table.ColumnSet()
	sorted := make([]string, len(columns))
	copy(sorted, columns)
	sort.Strings(sorted)
	return sorted
}
