package paramstore

// Writer persists the dirty leaves of one namespace. Implementations are
// supplied by the collaborator that owns that namespace's on-disk
// representation (task writer, agent writer, ...).
type Writer interface {
	Write(ns Namespace, paths []string, store *Store) error
}

// WriterFunc adapts a plain function to the Writer interface.
type WriterFunc func(ns Namespace, paths []string, store *Store) error

func (f WriterFunc) Write(ns Namespace, paths []string, store *Store) error {
	return f(ns, paths, store)
}

// FlushManager collects dirty leaves into a change-set keyed by
// namespace and hands each subset to a namespace-specific writer, in
// the fixed namespace order (system, folder, agent, task, session) so
// that cross-namespace consistency is preserved. After a writer returns
// success the corresponding dirty bits clear; on failure they remain
// set and are retried on the next flush.
type FlushManager struct {
	store   *Store
	writers map[Namespace]Writer
}

// NewFlushManager returns a manager bound to store with no writers
// registered; register one per namespace with Register before Flush.
func NewFlushManager(store *Store) *FlushManager {
	return &FlushManager{store: store, writers: make(map[Namespace]Writer)}
}

// Register binds a namespace to the writer responsible for persisting it.
func (f *FlushManager) Register(ns Namespace, w Writer) {
	f.writers[ns] = w
}

// Flush runs one flush pass across every namespace with dirty leaves, in
// FlushOrder, returning the first writer error encountered (subsequent
// namespaces still flush; their dirty bits are unaffected by an earlier
// failure).
func (f *FlushManager) Flush() error {
	dirty := f.store.DirtyLeaves()
	var firstErr error
	for _, ns := range FlushOrder {
		paths, ok := dirty[ns]
		if !ok || len(paths) == 0 {
			continue
		}
		writer, ok := f.writers[ns]
		if !ok {
			continue
		}
		if err := writer.Write(ns, paths, f.store); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, p := range paths {
			_ = f.store.ClearDirty(p)
		}
	}
	return firstErr
}
