package collection

import (
	"sync"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

type Bucket string

const (
	BucketCaught   Bucket = "caught"
	BucketForTrade Bucket = "trade"
	BucketWanted   Bucket = "wanted"
	BucketMissing  Bucket = "missing"
)

// Buckets are the presentation groupings of a trainer's collection screen:
// instance id to a projection of the instance. The reciprocal synchronizer
// writes the wanted bucket when it mints mirror entries and reads the trade
// bucket when filtering reciprocal visibility.
type Buckets struct {
	mu       sync.RWMutex
	byBucket map[Bucket]map[string]*models.Instance
}

func NewBuckets() *Buckets {
	return &Buckets{
		byBucket: map[Bucket]map[string]*models.Instance{
			BucketCaught:   {},
			BucketForTrade: {},
			BucketWanted:   {},
			BucketMissing:  {},
		},
	}
}

func (b *Buckets) Put(bucket Bucket, inst *models.Instance) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, ok := b.byBucket[bucket]
	if !ok {
		entries = make(map[string]*models.Instance)
		b.byBucket[bucket] = entries
	}
	entries[inst.InstanceID] = inst.Clone()
}

func (b *Buckets) Remove(bucket Bucket, instanceID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.byBucket[bucket], instanceID)
}

// Entry returns a copy of one bucket entry.
func (b *Buckets) Entry(bucket Bucket, instanceID string) (*models.Instance, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	inst, ok := b.byBucket[bucket][instanceID]
	if !ok {
		return nil, false
	}
	return inst.Clone(), true
}

// Entries returns copies of every entry in a bucket.
func (b *Buckets) Entries(bucket Bucket) []*models.Instance {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*models.Instance, 0, len(b.byBucket[bucket]))
	for _, inst := range b.byBucket[bucket] {
		out = append(out, inst.Clone())
	}
	return out
}

func (b *Buckets) Len(bucket Bucket) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byBucket[bucket])
}
