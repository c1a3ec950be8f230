// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package ranking

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/autobrr/streamrank/pkg/releases"
)

// Filter is a compiled boolean expression over Release fields, for example
//
//	Resolution == "2160p" && HDR && Encoder != "YIFY"
//	1 in Season && Filetype == "mkv"
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles source. An empty source yields a nil filter that keeps everything.
func CompileFilter(source string) (*Filter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}

	program, err := expr.Compile(source, expr.Env(releases.Release{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", source, err)
	}

	return &Filter{source: source, program: program}, nil
}

// String returns the filter source.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match evaluates the filter against r. A nil filter matches everything.
func (f *Filter) Match(r releases.Release) (bool, error) {
	if f == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, r)
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.source, err)
	}

	ok, _ := out.(bool)
	return ok, nil
}

// Apply returns the releases the filter keeps. The first evaluation error aborts.
func (f *Filter) Apply(rs []releases.Release) ([]releases.Release, error) {
	if f == nil {
		return rs, nil
	}

	out := make([]releases.Release, 0, len(rs))
	for _, r := range rs {
		ok, err := f.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}
