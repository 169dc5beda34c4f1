// Package statistics provides synchronized thread-safe statistics
// counters for the server and its namespaces.
package statistics

import (
	"sync/atomic"
	"time"
)

type ServerSync struct {
	handledRequests       int64
	receivedBytes         int64
	sentBytes             int64
	highestProcessingTime int64
	averageProcessingTime int64
}

func NewServerSync() *ServerSync {
	return &ServerSync{}
}

func (s *ServerSync) Update(
	receivedBytes, sentBytes int,
	processingTime time.Duration,
) {
	handledReqs := atomic.AddInt64(&s.handledRequests, 1)
	atomic.AddInt64(&s.receivedBytes, int64(receivedBytes))
	atomic.AddInt64(&s.sentBytes, int64(sentBytes))

	// Average processing time
	curAvgProcessingTime := atomic.LoadInt64(&s.averageProcessingTime)
	atomic.AddInt64(
		&s.averageProcessingTime,
		(int64(processingTime)-curAvgProcessingTime)/handledReqs,
	)

	// Highest processing time
	if int64(processingTime) > atomic.LoadInt64(&s.highestProcessingTime) {
		atomic.StoreInt64(&s.highestProcessingTime, int64(processingTime))
	}
}

func (s *ServerSync) GetHandledRequests() int64 {
	return atomic.LoadInt64(&s.handledRequests)
}

func (s *ServerSync) GetReceivedBytes() int64 {
	return atomic.LoadInt64(&s.receivedBytes)
}

func (s *ServerSync) GetSentBytes() int64 {
	return atomic.LoadInt64(&s.sentBytes)
}

func (s *ServerSync) GetHighestProcessingTime() int64 {
	return atomic.LoadInt64(&s.highestProcessingTime)
}

func (s *ServerSync) GetAverageProcessingTime() int64 {
	return atomic.LoadInt64(&s.averageProcessingTime)
}

type NamespaceSync struct {
	reads           int64
	hits            int64
	misses          int64
	writes          int64
	insertions      int64
	flushes         int64
	entriesReleased int64
	storedBytes     int64
}

func NewNamespaceSync() *NamespaceSync {
	return &NamespaceSync{}
}

// UpdateRead registers a read and its outcome.
func (s *NamespaceSync) UpdateRead(hit bool) {
	atomic.AddInt64(&s.reads, 1)
	if hit {
		atomic.AddInt64(&s.hits, 1)
		return
	}
	atomic.AddInt64(&s.misses, 1)
}

// UpdateWrite registers a write.
// created indicates whether the write created a new entry,
// deltaBytes is the change in stored value bytes
// (negative when an entry was overwritten by a smaller value).
func (s *NamespaceSync) UpdateWrite(created bool, deltaBytes int) {
	atomic.AddInt64(&s.writes, 1)
	if created {
		atomic.AddInt64(&s.insertions, 1)
	}
	atomic.AddInt64(&s.storedBytes, int64(deltaBytes))
}

// UpdateFlush registers a flush that released
// entriesReleased entries and reset the stored bytes gauge.
func (s *NamespaceSync) UpdateFlush(entriesReleased int) {
	atomic.AddInt64(&s.flushes, 1)
	atomic.AddInt64(&s.entriesReleased, int64(entriesReleased))
	atomic.StoreInt64(&s.storedBytes, 0)
}

func (s *NamespaceSync) GetReads() int64 {
	return atomic.LoadInt64(&s.reads)
}

func (s *NamespaceSync) GetHits() int64 {
	return atomic.LoadInt64(&s.hits)
}

func (s *NamespaceSync) GetMisses() int64 {
	return atomic.LoadInt64(&s.misses)
}

func (s *NamespaceSync) GetWrites() int64 {
	return atomic.LoadInt64(&s.writes)
}

func (s *NamespaceSync) GetInsertions() int64 {
	return atomic.LoadInt64(&s.insertions)
}

func (s *NamespaceSync) GetFlushes() int64 {
	return atomic.LoadInt64(&s.flushes)
}

func (s *NamespaceSync) GetEntriesReleased() int64 {
	return atomic.LoadInt64(&s.entriesReleased)
}

func (s *NamespaceSync) GetStoredBytes() int64 {
	return atomic.LoadInt64(&s.storedBytes)
}
