package kip17

import "github.com/doodoo-storage/klaytn-kip/types"

/*
MetadataStore keeps the URI of each token. Registry writes the URI on mint
and deletes it on burn, it never interprets the value.
*/
type MetadataStore interface {
	SetTokenURI(id types.TokenID, uri string) error
	TokenURI(id types.TokenID) (string, bool)
	DeleteTokenURI(id types.TokenID)
}

type memoryMetadataStore struct {
	uris map[types.TokenID]string
}

func NewMemoryMetadataStore() MetadataStore {
	return &memoryMetadataStore{uris: make(map[types.TokenID]string)}
}

func (s *memoryMetadataStore) SetTokenURI(id types.TokenID, uri string) error {
	s.uris[id] = uri
	return nil
}

func (s *memoryMetadataStore) TokenURI(id types.TokenID) (string, bool) {
	uri, ok := s.uris[id]
	return uri, ok
}

func (s *memoryMetadataStore) DeleteTokenURI(id types.TokenID) {
	delete(s.uris, id)
}
