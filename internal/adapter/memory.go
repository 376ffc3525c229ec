package adapter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/s3bridge/s3bridge/internal/stream"
	"github.com/s3bridge/s3bridge/pkg/models"
)

// MemoryAdapter implements ClientAdapter against in-process buckets. It
// preserves the production adapter's semantics — deferred per-object
// errors, lexicographic listing with delimiter grouping, nothing visible
// until an upload is finalized — so the streams and client are testable
// without network access.
type MemoryAdapter struct {
	mu         sync.RWMutex
	buckets    map[string]map[string]memObject
	versionSeq int
	partSize   int
}

type memObject struct {
	data         []byte
	etag         string
	versionID    string
	storageClass models.StorageClass
	modified     time.Time
}

// NewMemoryAdapter creates an empty in-memory adapter. partSize bounds
// download chunk size, matching the production adapter.
func NewMemoryAdapter(partSize int) *MemoryAdapter {
	return &MemoryAdapter{
		buckets:  make(map[string]map[string]memObject),
		partSize: partSize,
	}
}

// CreateBucket adds an empty bucket
func (m *MemoryAdapter) CreateBucket(bucket string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string]memObject)
	}
}

// PutObjectDirect stores an object without going through a stream,
// creating the bucket if needed. Intended for seeding test fixtures.
func (m *MemoryAdapter) PutObjectDirect(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string]memObject)
	}
	m.versionSeq++
	m.buckets[bucket][key] = memObject{
		data:      append([]byte(nil), data...),
		etag:      etagOf(data),
		versionID: fmt.Sprintf("v%06d", m.versionSeq),
		modified:  time.Now(),
	}
}

// ObjectData returns a stored object's bytes, if present
func (m *MemoryAdapter) ObjectData(bucket, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.buckets[bucket][key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.data...), true
}

// GetObject returns a chunk stream over a stored object. Lookup happens
// on the producer goroutine, so a missing object errors at the first
// pull, matching the production adapter.
func (m *MemoryAdapter) GetObject(bucket, key string) *stream.GetObjectStream {
	ctx, cancel := context.WithCancel(context.Background())
	chunks := make(chan stream.Chunk, stream.DefaultChunkBuffer)

	go func() {
		defer close(chunks)

		m.mu.RLock()
		objects, bucketOK := m.buckets[bucket]
		obj, objOK := objects[key]
		m.mu.RUnlock()

		if !bucketOK {
			sendChunk(ctx, chunks, stream.Chunk{Err: m.notFound("GetObject", bucket, key, CodeNoSuchBucket)})
			return
		}
		if !objOK {
			sendChunk(ctx, chunks, stream.Chunk{Err: m.notFound("GetObject", bucket, key, CodeNoSuchKey)})
			return
		}

		for off := 0; off < len(obj.data); off += m.partSize {
			end := off + m.partSize
			if end > len(obj.data) {
				end = len(obj.data)
			}
			if !sendChunk(ctx, chunks, stream.Chunk{Data: append([]byte(nil), obj.data[off:end]...)}) {
				return
			}
		}
	}()

	return stream.NewGetObjectStream(chunks, cancel)
}

// PutObject returns a sink that buffers writes and commits atomically on
// finalize. An aborted upload leaves no trace at the key.
func (m *MemoryAdapter) PutObject(bucket, key string, params models.PutObjectParams) *stream.PutObjectStream {
	return stream.NewPutObjectStream(&memUploader{
		m:      m,
		bucket: bucket,
		key:    key,
		params: params,
	})
}

// ListObjects returns a lazy page stream over the bucket in
// lexicographic key order. maxKeys counts keys plus common prefixes, as
// the S3 listing API does; the continuation token is the last entry of
// the previous page.
func (m *MemoryAdapter) ListObjects(bucket, prefix, delimiter string, maxKeys int) *stream.ListObjectStream {
	fetch := func(ctx context.Context, token string) (*models.ListingPage, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m.mu.RLock()
		objects, ok := m.buckets[bucket]
		if !ok {
			m.mu.RUnlock()
			return nil, m.notFound("ListObjects", bucket, "", CodeNoSuchBucket)
		}
		entries := listEntries(objects, prefix, delimiter)
		m.mu.RUnlock()

		page := &models.ListingPage{}
		count := 0
		for _, e := range entries {
			if e.name <= token {
				continue
			}
			if count == maxKeys {
				page.ContinuationToken = lastEntry(page)
				break
			}
			if e.isPrefix {
				page.CommonPrefixes = append(page.CommonPrefixes, e.name)
			} else {
				page.Objects = append(page.Objects, e.info)
			}
			count++
		}
		return page, nil
	}

	return stream.NewListObjectStream(fetch)
}

// Close releases resources
func (m *MemoryAdapter) Close() error {
	return nil
}

func (m *MemoryAdapter) notFound(op, bucket, key, code string) *RequestError {
	return &RequestError{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Code:   code,
		Err:    fmt.Errorf("%s does not exist", code),
	}
}

type listEntry struct {
	name     string
	isPrefix bool
	info     models.ObjectInfo
}

// listEntries merges plain keys and grouped prefixes under prefix into
// one lexicographically ordered sequence
func listEntries(objects map[string]memObject, prefix, delimiter string) []listEntry {
	var entries []listEntry
	seenPrefix := make(map[string]bool)

	keys := make([]string, 0, len(objects))
	for key := range objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		if delimiter != "" {
			rest := key[len(prefix):]
			if i := strings.Index(rest, delimiter); i >= 0 {
				cp := key[:len(prefix)+i+len(delimiter)]
				if !seenPrefix[cp] {
					seenPrefix[cp] = true
					entries = append(entries, listEntry{name: cp, isPrefix: true})
				}
				continue
			}
		}
		obj := objects[key]
		entries = append(entries, listEntry{
			name: key,
			info: models.ObjectInfo{
				Key:          key,
				Size:         int64(len(obj.data)),
				ETag:         obj.etag,
				LastModified: obj.modified,
			},
		})
	}
	return entries
}

// lastEntry returns the lexicographically last name on the page, which
// serves as the continuation token
func lastEntry(page *models.ListingPage) string {
	last := ""
	if n := len(page.Objects); n > 0 {
		last = page.Objects[n-1].Key
	}
	if n := len(page.CommonPrefixes); n > 0 {
		if cp := page.CommonPrefixes[n-1]; cp > last {
			last = cp
		}
	}
	return last
}

// memUploader buffers writes and commits on Complete. Abort discards
// the buffer; unlike the production engine there is no completion race,
// so an aborted upload is never visible.
type memUploader struct {
	m      *MemoryAdapter
	bucket string
	key    string
	params models.PutObjectParams
	buf    bytes.Buffer
}

func (u *memUploader) Write(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.buf.Write(p)
	return nil
}

func (u *memUploader) Complete(ctx context.Context) (*models.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u.m.mu.Lock()
	defer u.m.mu.Unlock()

	objects, ok := u.m.buckets[u.bucket]
	if !ok {
		return nil, u.m.notFound("PutObject", u.bucket, u.key, CodeNoSuchBucket)
	}

	data := append([]byte(nil), u.buf.Bytes()...)
	u.m.versionSeq++
	obj := memObject{
		data:         data,
		etag:         etagOf(data),
		versionID:    fmt.Sprintf("v%06d", u.m.versionSeq),
		storageClass: u.params.StorageClass,
		modified:     time.Now(),
	}
	objects[u.key] = obj

	return &models.UploadResult{
		Bucket:    u.bucket,
		Key:       u.key,
		ETag:      obj.etag,
		VersionID: obj.versionID,
	}, nil
}

func (u *memUploader) Abort(ctx context.Context) error {
	u.buf.Reset()
	return nil
}

// etagOf derives a stable content tag
func etagOf(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
