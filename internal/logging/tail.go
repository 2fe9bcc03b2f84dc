package logging

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const followInterval = 200 * time.Millisecond

// Tail writes the last n lines of the file at path to w. With n <= 0 the
// whole file is written. If follow is set it keeps writing appended data
// until ctx is done.
func Tail(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := writeLastLines(w, file, n); err != nil {
			return err
		}
	} else if _, err := io.Copy(w, file); err != nil {
		return err
	}

	if !follow {
		return nil
	}
	return tailFollow(ctx, w, file)
}

// writeLastLines scans the file once, keeping a ring of the last n lines.
func writeLastLines(w io.Writer, file *os.File, n int) error {
	ring := make([]string, n)
	count := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ring[count%n] = scanner.Text()
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	start := 0
	if count > n {
		start = count - n
	}
	for i := start; i < count; i++ {
		if _, err := fmt.Fprintln(w, ring[i%n]); err != nil {
			return err
		}
	}
	return nil
}

// tailFollow follows a file like tail -f.
func tailFollow(ctx context.Context, w io.Writer, file *os.File) error {
	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()
	for {
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
