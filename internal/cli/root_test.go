package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/koltont40/networkmonitoring/internal/errors"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{`unknown command "foo" for "netmon"`, true},
		{"unknown flag: --bogus", true},
		{"unknown shorthand flag: 'x' in -x", true},
		{"Cannot reach the monitoring backend", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(fmt.Errorf("%s", tt.msg)))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{`unknown command "10.0.0.5" for "netmon"`, "10.0.0.5"},
		{`unknown command "lsit" for "netmon hosts"`, "lsit"},
		{"unknown flag: --bogus", ""},
		{`unterminated "quote`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(fmt.Errorf("%s", tt.msg)))
		})
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "structured",
			err:  errors.New(errors.ErrInput, "No range given", "Pass the range as an argument"),
			want: "✗ No range given\n\n  Pass the range as an argument\n",
		},
		{
			name: "plain",
			err:  fmt.Errorf("boom"),
			want: "✗ boom\n",
		},
		{
			name: "already reported",
			err:  errSilent{fmt.Errorf("boom")},
			want: "",
		},
		{
			name: "address as command",
			err:  fmt.Errorf(`unknown command "192.0.2.1" for "netmon"`),
			want: "✗ unknown command \"192.0.2.1\" for \"netmon\"\n\n  To open that host, run: netmon show 192.0.2.1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd(newApp())

	for _, path := range [][]string{
		{"dashboard"}, {"monitor"}, {"show"},
		{"hosts", "list"}, {"hosts", "ls"}, {"hosts", "get"}, {"hosts", "add"}, {"hosts", "delete"}, {"hosts", "rm"},
		{"rescan"}, {"settings"},
		{"config", "init"}, {"config", "show"}, {"config", "set"},
		{"doctor"}, {"demo"}, {"version"}, {"completion"},
	} {
		cmd, _, err := root.Find(path)
		if assert.NoError(t, err, path) {
			assert.NotEqual(t, root, cmd, path)
		}
	}
}

func TestSkipBootstrap(t *testing.T) {
	root := newRootCmd(newApp())
	find := func(path ...string) *cobra.Command {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Fatal(err)
		}
		return cmd
	}

	assert.True(t, skipBootstrap(find("version")))
	assert.True(t, skipBootstrap(find("completion")))
	assert.True(t, skipBootstrap(find("config", "init")))
	assert.True(t, skipBootstrap(find("config", "set")))
	assert.True(t, skipBootstrap(find("doctor")))
	assert.False(t, skipBootstrap(find("config", "show")))
	assert.False(t, skipBootstrap(find("hosts", "list")))
	assert.False(t, skipBootstrap(root))
}
