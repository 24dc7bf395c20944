package logtail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const followerBuffer = 64

// ReadAll returns the full log contents, or the empty string when the file
// does not exist or cannot be read.
func ReadAll(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// Follow emits every complete line appended to path, starting from the
// beginning of the file, until ctx is done. The file may not exist yet; it
// is picked up once created. The returned channel is closed on ctx
// cancellation or watcher failure.
func Follow(ctx context.Context, path string) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the directory: the file itself may not exist yet, and watching
	// the parent also survives remove/recreate cycles.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching log directory: %w", err)
	}

	lines := make(chan string, followerBuffer)
	go follow(ctx, watcher, path, lines)
	return lines, nil
}

func follow(ctx context.Context, watcher *fsnotify.Watcher, path string, lines chan<- string) {
	defer watcher.Close()
	defer close(lines)

	var offset int64
	offset = emit(ctx, path, offset, lines)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != path {
				continue
			}
			if event.Op&fsnotify.Remove != 0 || event.Op&fsnotify.Create != 0 {
				offset = 0
			}
			offset = emit(ctx, path, offset, lines)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithFields(log.Fields{
				"path":  path,
				"error": err,
			}).Error("log watcher failed")
			return
		}
	}
}

// emit reads complete lines from offset onward, sends them, and returns the
// new offset. A trailing partial line stays unread until more bytes arrive.
func emit(ctx context.Context, path string, offset int64, lines chan<- string) int64 {
	file, err := os.Open(path)
	if err != nil {
		return offset
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset
	}
	if info.Size() < offset {
		offset = 0
	}
	if info.Size() == offset {
		return offset
	}

	buf := make([]byte, info.Size()-offset)
	if _, err := file.ReadAt(buf, offset); err != nil {
		return offset
	}

	content := string(buf)
	end := strings.LastIndexByte(content, '\n')
	if end < 0 {
		return offset
	}

	for _, line := range strings.Split(content[:end], "\n") {
		select {
		case lines <- line:
		case <-ctx.Done():
			return offset
		}
	}
	return offset + int64(end) + 1
}
