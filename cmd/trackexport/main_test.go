package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/lucasjlepore/trackexport/store/storetest"
)

func TestExportCommand(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	db := filepath.Join(dir, "sport_data.db")
	storetest.Write(t, db, storetest.Run(1519887600000))
	dest := filepath.Join(dir, "export")

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"export", "--samples-format", "none", "--log-level", "warn", db, dest})
	require.NoError(t, root.Execute())

	require.Contains(t, out.String(), "Date: 2018-03-01T07:00:00Z, 1519887600000, type: 1:Running")
	require.Contains(t, out.String(), "Exported 1 activities")
	_, err := os.Stat(filepath.Join(dest, "TCX", "1519887600000.tcx"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dest, "samples.parquet"))
	require.True(t, os.IsNotExist(err))

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"export", db, dest})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "Nothing exported (begin time 1519887600001)")
}

func TestExportCommandNeedsArgs(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"export", "only-db"})
	require.Error(t, root.Execute())
}

func TestVersionCommand(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "trackexport dev")
}
