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
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dirkeep/dirkeep/pkg/backup"
)

var listArchiveHeaders = []string{"Name", "Size", "Modified"}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archives in the destination directory.",
	Run: func(cmd *cobra.Command, args []string) {
		req := buildRequest()
		archives, err := backup.ListArchives(req.Destination, req.Name)
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader(listArchiveHeaders)
		for _, a := range archives {
			table.Append([]string{a.Name, humanize.Bytes(uint64(a.Size)), a.ModTime.Format(time.RFC3339)})
		}
		table.Render()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
