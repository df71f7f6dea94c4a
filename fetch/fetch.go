/*
 * fetch.go, part of molgrid.
 *
 *
 * Copyright 2024 rmeraaatacademicosdotutadotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

// Package fetch loads structure files from local paths and URLs.
//
// Files compressed with gzip (.gz), z-standard (.zst) or bzip2 (.bz2) are
// decompressed according to their extension. The returned text is already
// decoded to UTF-8 and sanitized. Requests to remote servers go through a
// rate limiter, and their results can be kept in a sqlite cache.
package fetch

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/molgrid"
	"golang.org/x/time/rate"
)

// MaxSize is the largest file, after decompression, that will be read.
const MaxSize = 64 << 20

// ErrTooLarge is returned for files bigger than MaxSize.
var ErrTooLarge = errors.New("fetch: file too large")

// StatusError is returned when a server answers with something other than 200.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s: HTTP status %d", e.URL, e.Code)
}

// Options configure a Fetcher. The zero value is usable.
type Options struct {
	Client  *http.Client //nil means a client with Timeout
	Timeout time.Duration
	Rate    float64 //requests per second to remote servers, 0 for no limit
	Burst   int
	Cache   *Cache      //may be nil
	BaseDir string      //relative paths are resolved against it
	Logger  *log.Logger //nil means log.Default()
}

// Fetcher loads structure files. It is safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	cache   *Cache
	baseDir string
	log     *log.Logger
}

// New returns a Fetcher configured with o.
func New(o Options) *Fetcher {
	F := &Fetcher{client: o.Client, cache: o.Cache, baseDir: o.BaseDir, log: o.Logger}
	if F.log == nil {
		F.log = log.Default()
	}
	if F.client == nil {
		t := o.Timeout
		if t <= 0 {
			t = 30 * time.Second
		}
		F.client = &http.Client{Timeout: t}
	}
	if o.Rate > 0 {
		b := o.Burst
		if b < 1 {
			b = 1
		}
		F.limiter = rate.NewLimiter(rate.Limit(o.Rate), b)
	}
	return F
}

func isURL(path string) bool {
	u, err := url.Parse(path)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Fetch returns the sanitized content of the file at path, which can be a
// local path, a file:// URL or an http(s) URL.
func (F *Fetcher) Fetch(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("fetch: empty path")
	}
	if isURL(path) {
		return F.remote(ctx, path)
	}
	if strings.HasPrefix(path, "file://") {
		u, err := url.Parse(path)
		if err != nil {
			return "", fmt.Errorf("fetch: %w", err)
		}
		path = u.Path
	}
	if !filepath.IsAbs(path) && F.baseDir != "" {
		path = filepath.Join(F.baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer f.Close()
	data, err := readAll(path, f)
	if err != nil {
		return "", err
	}
	return molgrid.SanitizeBytes(data), nil
}

func (F *Fetcher) remote(ctx context.Context, u string) (string, error) {
	if F.cache != nil {
		//a broken cache only costs a download.
		text, ok, err := F.cache.Get(ctx, u)
		if err != nil {
			F.log.Printf("fetch: cache lookup of %s: %v", u, err)
		}
		if err == nil && ok {
			return text, nil
		}
	}
	if F.limiter != nil {
		if err := F.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("fetch: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	resp, err := F.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: u, Code: resp.StatusCode}
	}
	name := u
	if p, err := url.Parse(u); err == nil {
		name = p.Path
	}
	data, err := readAll(name, resp.Body)
	if err != nil {
		return "", err
	}
	text := molgrid.SanitizeBytes(data)
	if F.cache != nil {
		if err := F.cache.Put(ctx, u, text); err != nil {
			F.log.Printf("fetch: caching %s: %v", u, err)
		}
	}
	return text, nil
}

// zstdCloser makes a *zstd.Decoder an io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// decompressor returns a reader that decompresses r according to the
// extension of name, or r itself for uncompressed files.
func decompressor(name string, r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return gzip.NewReader(br)
	case ".zst":
		d, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zstdCloser{d}, nil
	case ".bz2":
		return io.NopCloser(bzip2.NewReader(br)), nil
	}
	return io.NopCloser(br), nil
}

func readAll(name string, r io.Reader) ([]byte, error) {
	dr, err := decompressor(name, r)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", name, err)
	}
	defer dr.Close()
	data, err := io.ReadAll(io.LimitReader(dr, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", name, err)
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
