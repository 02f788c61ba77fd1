package store

// memStore is the in-memory backend: a plain associative map.
// Memory cost scales with the total bytes of one input side.
type memStore struct {
	m map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{m: map[string][]byte{}}
}

func (s *memStore) Insert(key, val []byte) error {
	v := make([]byte, len(val))
	copy(v, val)
	s.m[string(key)] = v
	return nil
}

func (s *memStore) Get(key []byte) ([]byte, bool, error) {
	v, ok := s.m[string(key)]
	return v, ok, nil
}

func (s *memStore) Remove(key []byte) ([]byte, bool, error) {
	v, ok := s.m[string(key)]
	if ok {
		delete(s.m, string(key))
	}
	return v, ok, nil
}

func (s *memStore) Scan(fn func(key, val []byte) error) error {
	for k, v := range s.m {
		if err := fn([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

func (s *memStore) Destroy() error {
	s.m = nil
	return nil
}
