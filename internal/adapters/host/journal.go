package host

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

const recordHeaderLen = 12

const (
	opRegister   = "register"
	opUnregister = "unregister"
)

type journalEntry struct {
	Op   string             `json:"op"`
	IDs  []domain.EntityID  `json:"ids"`
	Info *domain.EntityInfo `json:"info,omitempty"`
}

// FileJournal is a host that records registrations in an append-only journal so they
// survive restarts. Entry format: [8 bytes seq][4 bytes len][len bytes json].
type FileJournal struct {
	mu        sync.Mutex
	path      string
	file      *os.File
	writer    *bufio.Writer
	seq       uint64
	sizeBytes int64

	order []domain.EntityID
	live  map[domain.EntityID]domain.EntityInfo
}

func NewFileJournal(dir string) (*FileJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "entities.journal")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	j := &FileJournal{
		path:   path,
		file:   f,
		writer: bufio.NewWriter(f),
		live:   make(map[domain.EntityID]domain.EntityInfo),
	}
	if err := j.replay(); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return nil, err
	}
	return j, nil
}

// replay rebuilds the live set and truncates a torn tail left by a crash mid-write.
func (j *FileJournal) replay() error {
	rf, err := os.Open(j.path)
	if err != nil {
		return err
	}
	defer rf.Close()

	reader := bufio.NewReader(rf)
	var offset int64

	for {
		var hdr [recordHeaderLen]byte
		if _, err := io.ReadFull(reader, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("journal scan header: %w", err)
		}
		seq := binary.BigEndian.Uint64(hdr[0:8])
		length := binary.BigEndian.Uint32(hdr[8:12])

		body := make([]byte, length)
		if _, err := io.ReadFull(reader, body); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("journal scan body: %w", err)
		}

		var e journalEntry
		if err := json.Unmarshal(body, &e); err != nil {
			return fmt.Errorf("corrupt journal entry %d: %w", seq, err)
		}
		j.apply(e)

		offset += recordHeaderLen + int64(length)
		j.seq = seq
	}

	if err := j.file.Truncate(offset); err != nil {
		return err
	}
	j.sizeBytes = offset
	return nil
}

func (j *FileJournal) apply(e journalEntry) {
	switch e.Op {
	case opRegister:
		for _, id := range e.IDs {
			if _, ok := j.live[id]; !ok {
				j.order = append(j.order, id)
			}
			var info domain.EntityInfo
			if e.Info != nil {
				info = *e.Info
			}
			j.live[id] = info
		}
	case opUnregister:
		drop := make(map[domain.EntityID]struct{}, len(e.IDs))
		for _, id := range e.IDs {
			drop[id] = struct{}{}
			delete(j.live, id)
		}
		kept := j.order[:0]
		for _, id := range j.order {
			if _, ok := drop[id]; !ok {
				kept = append(kept, id)
			}
		}
		j.order = kept
	}
}

func (j *FileJournal) appendLocked(e journalEntry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	seq := j.seq + 1
	var hdr [recordHeaderLen]byte
	binary.BigEndian.PutUint64(hdr[0:8], seq)
	binary.BigEndian.PutUint32(hdr[8:12], uint32(len(b)))

	if err := j.write(hdr[:], b); err != nil {
		// drop the partial record
		j.writer.Reset(j.file)
		if terr := j.file.Truncate(j.sizeBytes); terr != nil {
			return errors.Join(err, fmt.Errorf("journal rollback: %w", terr))
		}
		return err
	}

	j.seq = seq
	j.sizeBytes += int64(len(b) + len(hdr))
	j.apply(e)
	return nil
}

func (j *FileJournal) write(hdr, body []byte) error {
	if _, err := j.writer.Write(hdr); err != nil {
		return err
	}
	if _, err := j.writer.Write(body); err != nil {
		return err
	}
	return j.writer.Flush()
}

// CachedEntities returns the ids still registered, oldest first.
func (j *FileJournal) CachedEntities() ([]domain.EntityID, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]domain.EntityID(nil), j.order...), nil
}

func (j *FileJournal) RegisterEntity(id domain.EntityID, info domain.EntityInfo) error {
	if id == "" {
		return fmt.Errorf("entity id is required")
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.appendLocked(journalEntry{Op: opRegister, IDs: []domain.EntityID{id}, Info: &info})
}

func (j *FileJournal) UnregisterEntities(ids []domain.EntityID) error {
	if len(ids) == 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.appendLocked(journalEntry{Op: opUnregister, IDs: ids})
}

// Entity returns the registration info recorded for id.
func (j *FileJournal) Entity(id domain.EntityID) (domain.EntityInfo, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	info, ok := j.live[id]
	return info, ok
}

// SizeBytes is the journal size on disk.
func (j *FileJournal) SizeBytes() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.sizeBytes
}

func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.writer.Flush(); err != nil {
		_ = j.file.Close()
		return err
	}
	return j.file.Close()
}

var _ ports.Host = (*FileJournal)(nil)
