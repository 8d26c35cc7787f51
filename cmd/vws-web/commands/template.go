package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/go-resty/resty/v2"
)

func isRemote(ref string) bool {
	parsed, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// resolveTemplate returns a local path for a template given as a path or an
// http(s) URL. Remote templates are downloaded into a temporary file which
// `cleanup` removes.
func resolveTemplate(ctx context.Context, client *resty.Client, ref string) (string, func(), error) {
	noop := func() {}

	if !isRemote(ref) {
		info, err := os.Stat(ref)
		if err != nil {
			return "", noop, fmt.Errorf("template file: %w", err)
		}
		if info.IsDir() {
			return "", noop, fmt.Errorf("template file %s is a directory", ref)
		}
		return ref, noop, nil
	}

	res, err := client.R().
		SetContext(ctx).
		Get(ref)
	if err != nil {
		return "", noop, fmt.Errorf("download template: %w", err)
	}
	if res.IsError() {
		return "", noop, fmt.Errorf("download template: %s returned %s", ref, res.Status())
	}
	if len(res.Body()) == 0 {
		return "", noop, fmt.Errorf("download template: %s returned an empty body", ref)
	}

	parsed, _ := url.Parse(ref)
	ext := path.Ext(parsed.Path)
	if ext == "" || strings.ContainsAny(ext, `/\*`) {
		ext = ".svg"
	}

	file, err := os.CreateTemp("", "vumark-template-*"+ext)
	if err != nil {
		return "", noop, err
	}
	cleanup := func() {
		os.Remove(file.Name())
	}
	_, err = file.Write(res.Body())
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", noop, fmt.Errorf("write template: %w", err)
	}
	return file.Name(), cleanup, nil
}
