package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/tubewaves/internal/media"
)

const thumbnailTimeout = 5 * time.Second

// ThumbnailCache downloads item thumbnails to local files usable as
// notification icons.
type ThumbnailCache struct {
	Client *http.Client
	Dir    string // defaults to $XDG_CACHE_HOME/tubewaves/thumbnails
}

// Path returns a local file for the item's thumbnail, downloading it on
// first use. Returns empty when the item has no thumbnail or the download
// fails.
func (c *ThumbnailCache) Path(ctx context.Context, item media.Item) string {
	url := item.Thumbnail()
	if url == "" || item.ID == "" {
		return ""
	}
	path, err := c.file(item.ID + ".jpg")
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if err := c.download(ctx, url, path); err != nil {
		return ""
	}
	return path
}

func (c *ThumbnailCache) file(name string) (string, error) {
	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0o755); err != nil {
			return "", err
		}
		return filepath.Join(c.Dir, name), nil
	}
	return xdg.CacheFile(filepath.Join("tubewaves", "thumbnails", name))
}

func (c *ThumbnailCache) download(ctx context.Context, url, path string) error {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, thumbnailTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("thumbnail: status %d", resp.StatusCode)
	}

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
