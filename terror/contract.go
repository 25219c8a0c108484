// SPDX-License-Identifier: ice License 1.0

package terror

type (
	// Err is an error that also carries structured data about the failure.
	Err struct {
		error
		Data map[string]any `json:"data"`
	}
)
