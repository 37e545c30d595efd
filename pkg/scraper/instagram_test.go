package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediascraper/pkg/browser"
	"mediascraper/pkg/config"
)

func TestInstagramValidateURL(t *testing.T) {
	i := NewInstagram(nil, testConfig(), nil, testLogger(), nil)

	tests := []struct {
		name    string
		url     string
		valid   bool
		message string
	}{
		{"profile", "https://www.instagram.com/natgeo/", true, "URL is valid"},
		{"post", "https://www.instagram.com/p/Cxyz123/", true, "URL is valid"},
		{"story", "https://instagram.com/stories/natgeo/123/", true, "URL is valid"},
		{"reel", "https://instagram.com/reel/Cxyz123/", true, "URL is valid"},
		{"missing scheme", "instagram.com/natgeo", false, "Invalid URL format"},
		{"ftp scheme", "ftp://instagram.com/natgeo", false, "URL must use HTTP or HTTPS"},
		{"wrong domain", "https://example.com/natgeo", false, "Not a valid Instagram domain"},
		{"bare host", "https://www.instagram.com/", true, "URL is valid"},
		{"bare host no slash", "https://www.instagram.com", true, "URL is valid"},
		{"username with dash", "https://instagram.com/bad-name/", false, "Invalid Instagram username format"},
		{"username too long", "https://instagram.com/" + strings.Repeat("a", 31) + "/", false, "Invalid Instagram username format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, message := i.ValidateURL(tt.url)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestInstagramAuthenticateMissingCredentials(t *testing.T) {
	i := NewInstagram(&fakeSession{}, testConfig(), nil, testLogger(), nil)

	err := i.Authenticate(context.Background(), config.Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing credentials")
}

func TestInstagramAuthenticateFillsLoginForm(t *testing.T) {
	session := &fakeSession{}
	i := NewInstagram(session, testConfig(), nil, testLogger(), nil)

	creds := config.Credentials{Username: "someone", Password: "hunter2"}
	err := i.Authenticate(context.Background(), creds)
	require.NoError(t, err)

	require.Len(t, session.navigated, 1)
	assert.Equal(t, instagramLoginURL, session.navigated[0])
	assert.Equal(t, "someone", session.sent[usernameSelector])
	assert.Equal(t, "hunter2", session.sent[passwordSelector])
	assert.Equal(t, []string{passwordSelector}, session.submitted)
}

func TestInstagramAuthenticateFailsWhenNoPostLoginMarker(t *testing.T) {
	// Only the login form itself becomes visible, no logged-in marker.
	session := &fakeSession{visible: map[string]bool{usernameSelector: true}}
	i := NewInstagram(session, testConfig(), nil, testLogger(), nil)

	err := i.Authenticate(context.Background(), config.Credentials{Username: "someone", Password: "hunter2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestInstagramMediaElementsSetsTotal(t *testing.T) {
	session := &fakeSession{
		thumbs: []browser.Thumbnail{
			{Src: "https://scontent.example.com/a.jpg"},
			{Src: "https://scontent.example.com/b.jpg"},
			{Src: "https://scontent.example.com/c.jpg"},
		},
	}
	i := NewInstagram(session, testConfig(), nil, testLogger(), nil)

	thumbs, err := i.MediaElements(context.Background())
	require.NoError(t, err)
	assert.Len(t, thumbs, 3)
	assert.Equal(t, 3, i.total)
}

func TestInstagramProcessMediaElementNoSource(t *testing.T) {
	progress := &progressRecorder{}
	i := NewInstagram(&fakeSession{}, testConfig(), nil, testLogger(), progress.record)
	i.total = 2

	success, result := i.ProcessMediaElement(context.Background(), browser.Thumbnail{}, 1, t.TempDir())
	assert.False(t, success)
	assert.Equal(t, "no source URL found", result)

	require.Len(t, progress.calls, 1)
	assert.Equal(t, progressCall{index: 2, success: false, total: 2}, progress.calls[0])
}

func TestInstagramProcessMediaElementDownloadsThumbnailSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("insta bytes"))
	}))
	defer server.Close()

	progress := &progressRecorder{}
	downloader := NewDownloader(time.Second, time.Millisecond, "", testLogger())
	i := NewInstagram(&fakeSession{}, testConfig(), downloader, testLogger(), progress.record)
	i.total = 1

	dir := t.TempDir()
	success, result := i.ProcessMediaElement(context.Background(),
		browser.Thumbnail{Src: server.URL + "/media.jpg"}, 0, dir)
	require.True(t, success, "expected success, got %q", result)
	assert.Equal(t, "instagram_1.jpg", result)
	assert.FileExists(t, filepath.Join(dir, "instagram_1.jpg"))
	require.Len(t, progress.calls, 1)
}
