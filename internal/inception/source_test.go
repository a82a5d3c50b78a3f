package inception

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s Stream) []string {
	t.Helper()
	var paths []string
	for {
		f, err := s.Next()
		if errors.Is(err, io.EOF) {
			return paths
		}
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(f.Path))
	}
}

func TestGlobSource_ExcludesTargetAndKeepsOrder(t *testing.T) {
	t.Parallel()

	stream, err := GlobSource{}.Open(context.Background(),
		[]string{fixture("files/depth0/*.html"), fixture("files/**/*.html")},
		fixture("files/index.html"),
	)
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, []string{
		"testdata/files/depth0/dogs.html",
		"testdata/files/birds.html",
		"testdata/files/depth0/depth1/cats.html",
	}, drain(t, stream))
}

func TestGlobSource_ClosedStreamRefusesReads(t *testing.T) {
	t.Parallel()

	stream, err := GlobSource{}.Open(context.Background(), []string{fixture("files/*.html")}, "")
	require.NoError(t, err)

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())

	_, err = stream.Next()
	assert.Error(t, err)
}

func TestSliceSource(t *testing.T) {
	t.Parallel()

	original := &File{Path: "a", Contents: []byte("A")}
	src := SliceSource{original, {Path: "target"}, {Path: "b"}}

	stream, err := src.Open(context.Background(), nil, "target")
	require.NoError(t, err)
	defer stream.Close()

	f, err := stream.Next()
	require.NoError(t, err)
	f.Contents[0] = 'Z'
	assert.Equal(t, "A", string(original.Contents), "streams hand out copies")

	assert.Equal(t, []string{"b"}, drain(t, stream))
}
