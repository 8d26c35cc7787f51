package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"vws-web-tools/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	require.True(t, isRemote("https://example.com/template.svg"))
	require.True(t, isRemote("http://localhost:8080/t"))
	require.False(t, isRemote("template.svg"))
	require.False(t, isRemote("/tmp/template.svg"))
	require.False(t, isRemote("file:///tmp/template.svg"))
	require.False(t, isRemote(`C:\templates\template.svg`))
}

func TestResolveTemplate(t *testing.T) {
	ctx := context.Background()
	recorder := &telemetry.Recorder{}
	client := resty.New()
	telemetry.InstrumentResty(client, recorder)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/template.svg":
			w.Write([]byte("<svg/>"))
		case "/empty":
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	{
		path, cleanup, err := resolveTemplate(ctx, client, server.URL+"/template.svg")
		require.NoError(t, err)
		require.Equal(t, ".svg", filepath.Ext(path))
		contents, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "<svg/>", string(contents))

		cleanup()
		_, err = os.Stat(path)
		require.ErrorIs(t, err, os.ErrNotExist)
		require.True(t, recorder.Has("debug", "resty.response"), recorder.String())
	}
	{
		_, _, err := resolveTemplate(ctx, client, server.URL+"/missing.svg")
		require.ErrorContains(t, err, "404")
	}
	{
		_, _, err := resolveTemplate(ctx, client, server.URL+"/empty")
		require.ErrorContains(t, err, "empty body")
	}
	{
		dir := t.TempDir()
		_, _, err := resolveTemplate(ctx, client, dir)
		require.ErrorContains(t, err, "is a directory")

		_, _, err = resolveTemplate(ctx, client, filepath.Join(dir, "missing.svg"))
		require.ErrorIs(t, err, os.ErrNotExist)
	}
}
