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
	"fmt"

	"github.com/spf13/cobra"
)

// set via ldflags at build time.
var (
	CurrentVersion string
	GitCommit      string
	BuildTime      string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print current version.",
	Run: func(cmd *cobra.Command, args []string) {
		if CurrentVersion == "" {
			CurrentVersion = "dev"
		}
		fmt.Println("Version: ", CurrentVersion)
		fmt.Println("Git commit: ", GitCommit)
		fmt.Println("Build: ", BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
