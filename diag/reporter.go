// Copyright 2024 The Bakery Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package diag

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/bakerylang/bakery/tree"
)

// Reporter accumulates Diagnostics in order of discovery. It owns no tree
// itself — NodePath rendering is deferred to String/Print time, given the
// store the diagnostics' node IDs were allocated from.
type Reporter struct {
	diags []*Diagnostic
}

// NewReporter returns an empty Reporter.
func NewReporter() *Reporter { return &Reporter{} }

// Report appends d to the accumulated diagnostics and, if debug tracing is
// enabled, traces it immediately via glog.
func (r *Reporter) Report(d *Diagnostic) {
	r.diags = append(r.diags, d)
	if glog.V(2) {
		glog.V(2).Infof("diag: %s", d.Kind)
	}
}

// Len reports how many diagnostics have been accumulated.
func (r *Reporter) Len() int { return len(r.diags) }

// Diagnostics returns the accumulated diagnostics in discovery order.
func (r *Reporter) Diagnostics() []*Diagnostic { return r.diags }

// String renders every accumulated diagnostic, one per line, using store to
// resolve node paths.
func (r *Reporter) String(store *tree.Store) string {
	var b strings.Builder
	for i, d := range r.diags {
		if i != 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Error: ")
		b.WriteString(d.render(func(id tree.ID) string { return NodePath(store, id) }))
	}
	return b.String()
}

// Print writes each accumulated diagnostic to stderr via glog.Errorf.
func (r *Reporter) Print(store *tree.Store) {
	for _, d := range r.diags {
		glog.Errorf("Error: %s", d.render(func(id tree.ID) string { return NodePath(store, id) }))
	}
}

// Error implements the error interface so a Reporter with at least one
// diagnostic can be returned directly as a compile failure.
func (r *Reporter) Error() string {
	return fmt.Sprintf("%d diagnostic(s) accumulated", len(r.diags))
}