package query

import "iter"

// Iterator is a cursor over one pass of a ResultSet, in the manner of
// sql.Rows. Call Close when abandoning it before Next returns false.
type Iterator struct {
	next    func() (Entry, error, bool)
	stop    func()
	current Entry
	err     error
	done    bool
}

// Iterator starts a new pass over the result set. It yields the same entries
// as Records.
func (rs *ResultSet) Iterator() *Iterator {
	next, stop := iter.Pull2(rs.Records())
	return &Iterator{next: next, stop: stop}
}

// Next advances to the next entry. It returns false at the end of the result
// or on error; check Err to tell them apart.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	e, err, ok := it.next()
	if !ok {
		it.Close()
		return false
	}
	if err != nil {
		it.err = err
		it.Close()
		return false
	}
	it.current = e
	return true
}

// Key returns the presentation key of the current entry.
func (it *Iterator) Key() int {
	return it.current.Key
}

// Record returns the current record.
func (it *Iterator) Record() Record {
	return it.current.Record
}

// Err returns the error that ended the pass, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Close ends the pass. It is safe to call more than once.
func (it *Iterator) Close() {
	if it.done {
		return
	}
	it.done = true
	it.current = Entry{}
	it.stop()
}
