package opener

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		wantArgs []string
		wantErr  bool
	}{
		{name: "macOS", goos: "darwin", wantArgs: []string{"open", "/shots"}},
		{name: "linux", goos: "linux", wantArgs: []string{"xdg-open", "/shots"}},
		{name: "windows", goos: "windows", wantArgs: []string{"explorer", "/shots"}},
		{name: "unsupported", goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{goos: tt.goos}
			cmd, err := o.Command("/shots")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Command error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Errorf("Args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestOpenFolder_Missing(t *testing.T) {
	o := &Opener{goos: "plan9"}
	if err := o.OpenFolder(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
