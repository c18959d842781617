// This file is part of dirkeep
//
// Copyright (C) 2025  DirKeep Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>

package cmd

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/dirkeep/dirkeep/pkg/backup"
)

func Test_buildRequest(t *testing.T) {
	type flags struct {
		source      string
		destination string
		keep        int
		name        string
	}
	tests := []struct {
		name  string
		flags flags
		want  backup.Request
	}{
		{
			name:  "flags win over config",
			flags: flags{source: "/flag/src", destination: "/flag/dst", keep: 5, name: "Photos"},
			want:  backup.Request{Source: "/flag/src", Destination: "/flag/dst", Keep: 5, Name: "Photos"},
		},
		{
			name:  "unset flags fall back to config",
			flags: flags{keep: -1},
			want:  backup.Request{Source: "/cfg/src", Destination: "/cfg/dst", Keep: 30, Name: "DirKeep"},
		},
		{
			name:  "keep zero disables pruning and is not a fallback",
			flags: flags{source: "/flag/src", destination: "/flag/dst", keep: 0, name: "Photos"},
			want:  backup.Request{Source: "/flag/src", Destination: "/flag/dst", Keep: 0, Name: "Photos"},
		},
	}

	viper.Set("source", "/cfg/src")
	viper.Set("destination", "/cfg/dst")
	viper.SetDefault("keep", defaultKeep)
	viper.SetDefault("name", defaultName)
	defer viper.Reset()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source = tt.flags.source
			destination = tt.flags.destination
			keep = tt.flags.keep
			name = tt.flags.name

			if got := buildRequest(); got != tt.want {
				t.Errorf("buildRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}
