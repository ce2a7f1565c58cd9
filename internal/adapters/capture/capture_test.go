package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"reflect"
	"testing"

	"picqer/internal/application"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func noTools(string) (string, error) { return "", errors.New("not found") }

func TestParseCommand(t *testing.T) {
	tests := []struct {
		command string
		want    []string
		wantErr bool
	}{
		{command: "grim -", want: []string{"grim", "-"}},
		{command: `xclip -t "image/png" -o`, want: []string{"xclip", "-t", "image/png", "-o"}},
		{command: "   ", want: nil},
		{command: `broken "quote`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got, err := ParseCommand(tt.command)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCommand error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCommand(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestFindCommand(t *testing.T) {
	onlyGrim := func(name string) (string, error) {
		if name == "grim" {
			return "/usr/bin/grim", nil
		}
		return "", errors.New("not found")
	}

	got, err := findCommand("", []string{"import -window root png:-", "grim -"}, onlyGrim)
	if err != nil || !reflect.DeepEqual(got, []string{"grim", "-"}) {
		t.Errorf("expected installed default, got %v, %v", got, err)
	}

	got, err = findCommand("my-shot --png", []string{"grim -"}, noTools)
	if err != nil || !reflect.DeepEqual(got, []string{"my-shot", "--png"}) {
		t.Errorf("configured command should win, got %v, %v", got, err)
	}

	got, _ = findCommand("", []string{"grim -"}, noTools)
	if got != nil {
		t.Errorf("expected no command, got %v", got)
	}
}

func TestRun_FilePlaceholder(t *testing.T) {
	data := pngBytes(t, 2, 2)
	runner := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "snap" || len(args) != 2 || args[0] != "-o" {
			t.Errorf("unexpected invocation %s %v", name, args)
		}
		return nil, os.WriteFile(args[1], data, 0o600)
	}

	out, err := run(context.Background(), runner, []string{"snap", "-o", FilePlaceholder})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("output not read from placeholder file")
	}
}

func TestClipboard_Image(t *testing.T) {
	data := pngBytes(t, 3, 2)

	tests := []struct {
		name    string
		runner  Runner
		wantImg bool
		wantErr bool
	}{
		{
			name: "png on clipboard",
			runner: func(context.Context, string, ...string) ([]byte, error) {
				return data, nil
			},
			wantImg: true,
		},
		{
			name: "tool reports no image",
			runner: func(context.Context, string, ...string) ([]byte, error) {
				return nil, errors.New("exit status 1: target image/png not available")
			},
		},
		{
			name: "empty output",
			runner: func(context.Context, string, ...string) ([]byte, error) {
				return nil, nil
			},
		},
		{
			name: "garbage output",
			runner: func(context.Context, string, ...string) ([]byte, error) {
				return []byte("not an image"), nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClipboard("paste-image", quietLogger())
			c.runner = tt.runner

			img, err := c.Image(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Image error = %v, wantErr %v", err, tt.wantErr)
			}
			if (img != nil) != tt.wantImg {
				t.Errorf("Image returned image = %v, want %v", img != nil, tt.wantImg)
			}
		})
	}
}

func TestClipboard_NoTool(t *testing.T) {
	c := NewClipboard("", quietLogger())
	c.lookPath = noTools

	img, err := c.Image(context.Background())
	if img != nil || err != nil {
		t.Errorf("expected no image and no error, got %v, %v", img, err)
	}
}

func TestClipboard_Text(t *testing.T) {
	c := NewClipboard("", quietLogger())
	c.readText = func() (string, error) { return "/tmp/a.png", nil }

	text, err := c.Text()
	if err != nil || text != "/tmp/a.png" {
		t.Errorf("unexpected text %q, err %v", text, err)
	}

	c.readText = func() (string, error) { return "", errors.New("no xsel") }
	if _, err := c.Text(); err == nil {
		t.Error("expected error")
	}
}

func TestScreen_Grab(t *testing.T) {
	data := pngBytes(t, 4, 4)
	s := NewScreen("shot -", quietLogger())
	s.runner = func(context.Context, string, ...string) ([]byte, error) {
		return data, nil
	}

	img, err := s.Grab(context.Background())
	if err != nil {
		t.Fatalf("Grab failed: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}

func TestScreen_NoTool(t *testing.T) {
	s := NewScreen("", quietLogger())
	s.lookPath = noTools

	_, err := s.Grab(context.Background())
	if !errors.Is(err, application.ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
}

func TestScreen_ToolFails(t *testing.T) {
	s := NewScreen("shot -", quietLogger())
	s.runner = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("cannot open display")
	}

	if _, err := s.Grab(context.Background()); err == nil {
		t.Error("expected error")
	}
}
