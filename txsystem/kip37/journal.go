package kip37

import "github.com/doodoo-storage/klaytn-kip/types"

type prior[V any] struct {
	value V
	ok    bool
}

/*
journal applies already validated mutations to the registry while
remembering the prior value of every entry it touches, so that the
operation can be undone when acceptance callback rejects it.
*/
type journal struct {
	r        *Registry
	lastID   types.TokenID
	balances map[balanceKey]prior[uint64]
	supply   map[types.TokenID]prior[uint64]
	uris     map[types.TokenID]prior[string]
}

func (r *Registry) begin() *journal {
	return &journal{
		r:        r,
		lastID:   r.lastID,
		balances: make(map[balanceKey]prior[uint64]),
		supply:   make(map[types.TokenID]prior[uint64]),
		uris:     make(map[types.TokenID]prior[string]),
	}
}

// allocate returns n fresh class ids, caller must have checked that the id
// space is not exhausted.
func (j *journal) allocate(n int) []types.TokenID {
	ids := make([]types.TokenID, n)
	for i := range ids {
		j.r.lastID++
		ids[i] = j.r.lastID
	}
	return ids
}

// bumpLastID makes sure allocation never returns id which is already in use.
func (j *journal) bumpLastID(id types.TokenID) {
	if id > j.r.lastID {
		j.r.lastID = id
	}
}

func (j *journal) setURI(id types.TokenID, uri string) {
	if _, seen := j.uris[id]; !seen {
		v, ok := j.r.uris[id]
		j.uris[id] = prior[string]{value: v, ok: ok}
	}
	j.r.uris[id] = uri
}

func (j *journal) setSupply(id types.TokenID, n uint64) {
	if _, seen := j.supply[id]; !seen {
		v, ok := j.r.supply[id]
		j.supply[id] = prior[uint64]{value: v, ok: ok}
	}
	j.r.supply[id] = n
}

func (j *journal) setBalance(key balanceKey, n uint64) {
	if _, seen := j.balances[key]; !seen {
		v, ok := j.r.balances[key]
		j.balances[key] = prior[uint64]{value: v, ok: ok}
	}
	if n == 0 {
		delete(j.r.balances, key)
	} else {
		j.r.balances[key] = n
	}
}

// mint credits the account and the class supply, creating the class when needed.
func (j *journal) mint(to types.Principal, id types.TokenID, n uint64) {
	j.setSupply(id, j.r.supply[id]+n)
	key := balanceKey{owner: to, id: id}
	j.setBalance(key, j.r.balances[key]+n)
}

func (j *journal) burn(from types.Principal, id types.TokenID, n uint64) {
	// burning zero of unknown class must not create it
	if supply, ok := j.r.supply[id]; ok {
		j.setSupply(id, supply-n)
	}
	key := balanceKey{owner: from, id: id}
	j.setBalance(key, j.r.balances[key]-n)
}

func (j *journal) move(from, to types.Principal, id types.TokenID, n uint64) {
	src := balanceKey{owner: from, id: id}
	j.setBalance(src, j.r.balances[src]-n)
	dst := balanceKey{owner: to, id: id}
	j.setBalance(dst, j.r.balances[dst]+n)
}

func (j *journal) rollback() {
	j.r.lastID = j.lastID
	for k, p := range j.balances {
		if p.ok {
			j.r.balances[k] = p.value
		} else {
			delete(j.r.balances, k)
		}
	}
	for k, p := range j.supply {
		if p.ok {
			j.r.supply[k] = p.value
		} else {
			delete(j.r.supply, k)
		}
	}
	for k, p := range j.uris {
		if p.ok {
			j.r.uris[k] = p.value
		} else {
			delete(j.r.uris, k)
		}
	}
}
