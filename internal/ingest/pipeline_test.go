package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type recordingAppender struct {
	calls [][]types.Item
	err   error
}

func (r *recordingAppender) AppendToPool(_ context.Context, items []types.Item) error {
	r.calls = append(r.calls, append([]types.Item(nil), items...))
	return r.err
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("i_%d", n)
	}
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestPipeline(a Appender, opts ...Option) *Pipeline {
	base := []Option{WithIDGenerator(seqIDs()), WithLogger(quietLogger())}
	return NewPipeline(a, append(base, opts...)...)
}

func TestImportFaultIsolation(t *testing.T) {
	app := &recordingAppender{}
	p := newTestPipeline(app, WithMaxBytes(64))

	files := []File{
		FromBytes("cat.png", "image/png", pngHeader),
		FromBytes("huge.png", "image/png", make([]byte, 65)),
		FromBytes("dog.jpeg", "image/jpeg", []byte("jpeg-bytes")),
	}

	res, err := p.Import(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "huge.png", res.Failures[0].Name)
	assert.ErrorIs(t, res.Failures[0].Err, ErrTooLarge)

	require.Len(t, app.calls, 1, "one append for the whole batch")
	batch := app.calls[0]
	require.Len(t, batch, 2)
	assert.Equal(t, types.Item{ID: "i_1", Text: "cat", Image: "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="}, batch[0])
	assert.Equal(t, "dog", batch[1].Text)
	assert.True(t, strings.HasPrefix(batch[1].Image, "data:image/jpeg;base64,"))
}

func TestImportRejections(t *testing.T) {
	tests := []struct {
		name    string
		file    File
		wantErr error
	}{
		{name: "declared non-image", file: FromBytes("notes.txt", "text/plain", []byte("hi")), wantErr: ErrNotImage},
		{name: "sniffed non-image", file: FromBytes("blob", "", []byte("just some text")), wantErr: ErrNotImage},
		{name: "declared size over limit", file: File{Name: "big.png", MediaType: "image/png", Size: 1 << 30}, wantErr: ErrTooLarge},
		{name: "open failure", file: File{Name: "gone.png", MediaType: "image/png", Size: -1, Open: func() (io.ReadCloser, error) {
			return nil, errors.New("permission denied")
		}}, wantErr: ErrRead},
		{name: "no content", file: File{Name: "empty.png", MediaType: "image/png", Size: -1}, wantErr: ErrRead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &recordingAppender{}
			res, err := newTestPipeline(app).Import(context.Background(), []File{tt.file})
			require.NoError(t, err)
			assert.Equal(t, 0, res.Succeeded)
			require.Len(t, res.Failures, 1)
			assert.ErrorIs(t, res.Failures[0].Err, tt.wantErr)
			assert.Empty(t, app.calls, "pool untouched when nothing succeeded")
		})
	}
}

func TestImportSniffsUndeclaredType(t *testing.T) {
	app := &recordingAppender{}
	res, err := newTestPipeline(app).Import(context.Background(), []File{FromBytes("mystery", "", pngHeader)})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	assert.True(t, strings.HasPrefix(res.Items[0].Image, "data:image/png;base64,"))
	assert.Equal(t, "mystery", res.Items[0].Text)
}

func TestImportStreamExceedingLimit(t *testing.T) {
	f := File{
		Name:      "liar.png",
		MediaType: "image/png",
		Size:      -1,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(strings.Repeat("x", 100))), nil
		},
	}
	res, err := newTestPipeline(&recordingAppender{}, WithMaxBytes(10)).Import(context.Background(), []File{f})
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.Failures[0].Err, ErrTooLarge)
}

func TestImportProgress(t *testing.T) {
	var seen [][2]int
	p := newTestPipeline(&recordingAppender{}, WithProgress(func(done, total int) {
		seen = append(seen, [2]int{done, total})
	}))

	_, err := p.Import(context.Background(), []File{
		FromBytes("a.png", "image/png", pngHeader),
		FromBytes("b.txt", "text/plain", nil),
		FromBytes("c.png", "image/png", pngHeader),
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, seen)
}

func TestImportDecoderFailureIsPerFile(t *testing.T) {
	dec := DecoderFunc(func(_ context.Context, name, mt string, data []byte) (string, error) {
		if name == "bad.png" {
			return "", errors.New("corrupt")
		}
		return DataURIDecoder{}.Decode(context.Background(), name, mt, data)
	})
	app := &recordingAppender{}
	res, err := newTestPipeline(app, WithDecoder(dec)).Import(context.Background(), []File{
		FromBytes("bad.png", "image/png", pngHeader),
		FromBytes("good.png", "image/png", pngHeader),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, app.calls, 1)
	assert.Equal(t, "good", app.calls[0][0].Text)
}

func TestImportAppendError(t *testing.T) {
	app := &recordingAppender{err: errors.New("boom")}
	res, err := newTestPipeline(app).Import(context.Background(), []File{FromBytes("a.png", "image/png", pngHeader)})
	require.Error(t, err)
	assert.Equal(t, 1, res.Succeeded)
}

func TestImportDefaultIDs(t *testing.T) {
	app := &recordingAppender{}
	p := NewPipeline(app, WithLogger(quietLogger()))
	res, err := p.Import(context.Background(), []File{
		FromBytes("a.png", "image/png", pngHeader),
		FromBytes("b.png", "image/png", pngHeader),
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Regexp(t, `^i_[0-9a-f-]{36}$`, res.Items[0].ID)
	assert.NotEqual(t, res.Items[0].ID, res.Items[1].ID)
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sunset.beach.png")
	require.NoError(t, os.WriteFile(p, pngHeader, 0o644))

	f := FromPath(p)
	assert.Equal(t, "sunset.beach.png", f.Name)
	assert.Equal(t, "image/png", f.MediaType)
	assert.Equal(t, int64(len(pngHeader)), f.Size)

	res, err := newTestPipeline(&recordingAppender{}).Import(context.Background(), []File{f, FromPath(filepath.Join(dir, "missing.png"))})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, "sunset.beach", res.Items[0].Text)
	require.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.Failures[0].Err, ErrRead)
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"cat.png":            "cat",
		"cat.photo.png":      "cat.photo",
		"noext":              "noext",
		"dir/sub/x.gif":      "x",
		`C:\Users\me\y.jpeg`: "y",
		".png":               "",
		"trailing.":          "trailing.",
	}
	for in, want := range tests {
		assert.Equal(t, want, DisplayName(in), in)
	}
}

func TestDataURIDecoderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DataURIDecoder{}.Decode(ctx, "a.png", "image/png", pngHeader)
	assert.ErrorIs(t, err, context.Canceled)
}
