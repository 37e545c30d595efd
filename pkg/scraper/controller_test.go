package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediascraper/pkg/browser"
	"mediascraper/pkg/metadata"
)

func newTestController(t *testing.T, session *fakeSession) *Controller {
	t.Helper()
	cfg := testConfig()
	cfg.Download.Directory = t.TempDir()

	c := NewController(cfg, testLogger(), nil)
	c.newSession = func() (Session, error) {
		return session, nil
	}
	return c
}

func TestControllerRunRejectsBeforeLaunchingBrowser(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"unsupported domain", "https://example.com/gallery", "unsupported domain"},
		{"threads not supported", "https://threads.net/@someone", "not supported yet"},
		{"bad scheme", "ftp://fapello.com/some-model", "URL must use HTTP or HTTPS"},
		{"unparseable", "://nope", "Invalid URL format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, nil)
			c.newSession = func() (Session, error) {
				t.Fatal("browser must not be launched for invalid targets")
				return nil, nil
			}

			err := c.Run(context.Background(), tt.url)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestControllerRunFapelloEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image bytes"))
	}))
	defer server.Close()

	tab := &fakeTab{
		images: []browser.Image{
			{Src: server.URL + "/full.jpg", Width: "1080", Height: "1920"},
		},
	}
	session := &fakeSession{
		tab: tab,
		thumbs: []browser.Thumbnail{
			{Src: server.URL + "/t1.jpg", Link: "https://fapello.com/d/1"},
			{Src: server.URL + "/t2.jpg"}, // no detail link, fails
		},
	}
	c := newTestController(t, session)

	err := c.Run(context.Background(), "https://fapello.com/some-model/")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://fapello.com/some-model/"}, session.navigated)
	assert.True(t, session.closed, "session must be closed when the run finishes")

	dir := c.cfg.Download.Directory
	assert.FileExists(t, filepath.Join(dir, "image_1.jpg"))

	data, err := os.ReadFile(filepath.Join(dir, metadata.ReportFilename))
	require.NoError(t, err)

	var report metadata.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "https://fapello.com/some-model/", report.TargetURL)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Items, 2)
	assert.True(t, report.Items[0].Success)
	assert.Equal(t, "image_1.jpg", report.Items[0].Filename)
	assert.False(t, report.Items[1].Success)
	assert.Equal(t, "no link found", report.Items[1].Error)
}

func TestControllerRunClosesSessionWhenNoMediaFound(t *testing.T) {
	session := &fakeSession{}
	c := newTestController(t, session)

	err := c.Run(context.Background(), "https://fapello.com/empty-profile/")
	require.NoError(t, err)
	assert.True(t, session.closed)
	assert.NoFileExists(t, filepath.Join(c.cfg.Download.Directory, metadata.ReportFilename))
}
