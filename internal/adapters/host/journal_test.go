package host

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
)

func info(typ domain.SensorType, ch int) domain.EntityInfo {
	return domain.EntityInfo{Descriptor: domain.Descriptor{Type: typ, Channel: ch}, Key: "AA-" + string(typ)}
}

func TestFileJournalSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	j, err := NewFileJournal(dir)
	require.NoError(t, err)
	require.NoError(t, j.RegisterEntity("a", info(domain.SensorWH25, 0)))
	require.NoError(t, j.RegisterEntity("b", info(domain.SensorWH31, 1)))
	require.NoError(t, j.RegisterEntity("c", info(domain.SensorWH65, 0)))
	require.NoError(t, j.UnregisterEntities([]domain.EntityID{"b"}))
	require.NoError(t, j.Close())

	j2, err := NewFileJournal(dir)
	require.NoError(t, err)
	defer j2.Close()

	ids, _ := j2.CachedEntities()
	assert.Equal(t, []domain.EntityID{"a", "c"}, ids)
	got, ok := j2.Entity("c")
	require.True(t, ok)
	assert.Equal(t, domain.SensorWH65, got.Descriptor.Type)

	require.NoError(t, j2.RegisterEntity("d", info(domain.SensorWH57, 0)))
	assert.Equal(t, uint64(5), j2.seq, "sequence continues after reopen")
}

func TestFileJournalTruncatesTornTail(t *testing.T) {
	dir := t.TempDir()

	j, err := NewFileJournal(dir)
	require.NoError(t, err)
	require.NoError(t, j.RegisterEntity("a", info(domain.SensorWH25, 0)))
	size := j.SizeBytes()
	require.NoError(t, j.Close())

	require.NoError(t, appendGarbage(filepath.Join(dir, "entities.journal")))

	j2, err := NewFileJournal(dir)
	require.NoError(t, err)
	defer j2.Close()

	assert.Equal(t, size, j2.SizeBytes())
	ids, _ := j2.CachedEntities()
	assert.Equal(t, []domain.EntityID{"a"}, ids)
}

// shortWriter passes n bytes through and then fails.
type shortWriter struct {
	w io.Writer
	n int
}

func (s *shortWriter) Write(p []byte) (int, error) {
	if len(p) <= s.n {
		s.n -= len(p)
		return s.w.Write(p)
	}
	written, err := s.w.Write(p[:s.n])
	s.n = 0
	if err != nil {
		return written, err
	}
	return written, errors.New("disk full")
}

func TestFileJournalRollsBackFailedAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entities.journal")

	j, err := NewFileJournal(dir)
	require.NoError(t, err)
	require.NoError(t, j.RegisterEntity("a", info(domain.SensorWH25, 0)))
	size := j.SizeBytes()

	// header reaches the file, body does not
	j.writer = bufio.NewWriter(&shortWriter{w: j.file, n: recordHeaderLen})
	require.Error(t, j.RegisterEntity("b", info(domain.SensorWH31, 1)))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, size, st.Size(), "partial record must not stay in the file")
	assert.Equal(t, size, j.SizeBytes())
	_, ok := j.Entity("b")
	assert.False(t, ok)

	require.NoError(t, j.RegisterEntity("c", info(domain.SensorWH65, 0)))
	require.NoError(t, j.Close())

	j2, err := NewFileJournal(dir)
	require.NoError(t, err)
	defer j2.Close()

	ids, _ := j2.CachedEntities()
	assert.Equal(t, []domain.EntityID{"a", "c"}, ids)
}

func TestFileJournalUnregisterAllEmptiesCache(t *testing.T) {
	j, err := NewFileJournal(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RegisterEntity("a", info(domain.SensorWH25, 0)))
	require.NoError(t, j.RegisterEntity("b", info(domain.SensorWH57, 0)))

	ids, _ := j.CachedEntities()
	require.NoError(t, j.UnregisterEntities(ids))
	ids, _ = j.CachedEntities()
	assert.Empty(t, ids)
	assert.Error(t, j.RegisterEntity("", domain.EntityInfo{}), "empty id must be rejected")
}

func TestMemoryHost(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.RegisterEntity("a", info(domain.SensorWH25, 0)))
	require.NoError(t, m.RegisterEntity("b", info(domain.SensorWH31, 2)))
	require.NoError(t, m.RegisterEntity("a", info(domain.SensorWH25, 0)))

	ids, _ := m.CachedEntities()
	assert.Len(t, ids, 2)

	require.NoError(t, m.UnregisterEntities([]domain.EntityID{"a"}))
	entities := m.Entities()
	require.Len(t, entities, 1)
	assert.Equal(t, 2, entities[0].Descriptor.Channel)
}

func appendGarbage(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x01, 0x00, '{'})
	return err
}
