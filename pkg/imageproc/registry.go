package imageproc

import (
	"sync"

	"github.com/matzehuels/hextile/pkg/errors"
)

// DefaultRegistrySize is the number of images a server keeps.
const DefaultRegistrySize = 256

// Registry holds processed images by id. When full, the oldest image is
// dropped. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	limit  int
	images map[string]*Image
	order  []string
}

// NewRegistry creates a registry holding at most limit images.
// A non-positive limit uses [DefaultRegistrySize].
func NewRegistry(limit int) *Registry {
	if limit <= 0 {
		limit = DefaultRegistrySize
	}
	return &Registry{limit: limit, images: make(map[string]*Image)}
}

// Put stores img, evicting the oldest entry if the registry is full.
func (r *Registry) Put(img *Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.images[img.ID]; !ok {
		r.order = append(r.order, img.ID)
	}
	r.images[img.ID] = img
	for len(r.order) > r.limit {
		delete(r.images, r.order[0])
		r.order = r.order[1:]
	}
}

// Get returns the image with the given id.
func (r *Registry) Get(id string) (*Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.images[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeImageNotFound, "image not found: %s", id)
	}
	return img, nil
}

// Len returns the number of stored images.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.images)
}
