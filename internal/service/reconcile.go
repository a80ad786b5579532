package service

// diff is the outcome of keying a persisted collection against an incoming
// desired-state collection. Inserts are incoming records with no persisted
// counterpart, updates pair each surviving persisted record with its incoming
// replacement, deletes are persisted records absent from the incoming set.
type diff[P any, I any] struct {
	inserts []I
	updates []pair[P, I]
	deletes []P
}

type pair[P any, I any] struct {
	persisted P
	incoming  I
}

// diffByKey reconciles two collections by natural key. It is shared by the
// item, vendor and quote passes of an RFQ update — only the key functions
// differ per collection. Keys must already be canonical: alias normalization
// happens before this runs, otherwise existing rows would be misread as new.
//
// Incoming records whose key is the zero value of K are ignored; they carry
// no usable reference. When the incoming set repeats a key, the last record
// wins, which makes resubmitting the same payload idempotent.
func diffByKey[P any, I any, K comparable](
	persisted []P,
	incoming []I,
	persistedKey func(P) K,
	incomingKey func(I) K,
) diff[P, I] {
	var zero K

	incomingByKey := make(map[K]I, len(incoming))
	order := make([]K, 0, len(incoming))
	for _, in := range incoming {
		k := incomingKey(in)
		if k == zero {
			continue
		}
		if _, seen := incomingByKey[k]; !seen {
			order = append(order, k)
		}
		incomingByKey[k] = in
	}

	var d diff[P, I]
	matched := make(map[K]bool, len(persisted))
	for _, p := range persisted {
		k := persistedKey(p)
		if in, ok := incomingByKey[k]; ok {
			d.updates = append(d.updates, pair[P, I]{persisted: p, incoming: in})
			matched[k] = true
		} else {
			d.deletes = append(d.deletes, p)
		}
	}
	for _, k := range order {
		if !matched[k] {
			d.inserts = append(d.inserts, incomingByKey[k])
		}
	}
	return d
}
