package dom

import "sync"

// MutationType is the kind of a MutationRecord.
type MutationType int

const (
	ChildList MutationType = iota + 1
	CharacterData
)

func (t MutationType) String() string {
	switch t {
	case ChildList:
		return "childList"
	case CharacterData:
		return "characterData"
	default:
		return "unknown"
	}
}

// MutationRecord describes one mutation of the tree.
type MutationRecord struct {
	Type         MutationType
	Target       *Node
	AddedNodes   []*Node
	RemovedNodes []*Node
	OldValue     string // characterData only
}

// ObserveOptions selects which mutations an observer receives.
type ObserveOptions struct {
	ChildList     bool
	CharacterData bool
	Subtree       bool
}

// MutationCallback receives a batch of records. It runs on its own goroutine,
// after the mutating call has queued the records.
type MutationCallback func(records []MutationRecord, observer *MutationObserver)

// MutationObserver batches the records of the nodes it observes and hands
// them to its callback asynchronously.
type MutationObserver struct {
	callback MutationCallback

	mu        sync.Mutex
	pending   []MutationRecord
	scheduled bool
	docs      map[*Document]struct{}
}

type registration struct {
	observer *MutationObserver
	target   *Node
	options  ObserveOptions
}

func NewMutationObserver(callback MutationCallback) *MutationObserver {
	return &MutationObserver{callback: callback, docs: make(map[*Document]struct{})}
}

// Observe starts delivering mutations of target matching opts. Observing the
// same target again replaces its options.
func (o *MutationObserver) Observe(target *Node, opts ObserveOptions) {
	d := target.doc
	if d == nil {
		return
	}
	o.mu.Lock()
	o.docs[d] = struct{}{}
	o.mu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.registrations {
		if r.observer == o && r.target == target {
			r.options = opts
			return
		}
	}
	d.registrations = append(d.registrations, &registration{observer: o, target: target, options: opts})
}

// Disconnect stops all observation and drops undelivered records.
func (o *MutationObserver) Disconnect() {
	o.mu.Lock()
	docs := o.docs
	o.docs = make(map[*Document]struct{})
	o.pending = nil
	o.mu.Unlock()

	for d := range docs {
		d.unregister(o)
	}
}

// TakeRecords empties and returns the undelivered records.
func (o *MutationObserver) TakeRecords() []MutationRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	records := o.pending
	o.pending = nil
	return records
}

func (o *MutationObserver) enqueue(rec MutationRecord) {
	o.mu.Lock()
	o.pending = append(o.pending, rec)
	if o.scheduled {
		o.mu.Unlock()
		return
	}
	o.scheduled = true
	o.mu.Unlock()

	go o.deliver()
}

func (o *MutationObserver) deliver() {
	o.mu.Lock()
	records := o.pending
	o.pending = nil
	o.scheduled = false
	o.mu.Unlock()

	if len(records) == 0 {
		return
	}
	o.callback(records, o)
}

func (r *registration) matches(rec MutationRecord) bool {
	switch rec.Type {
	case ChildList:
		if !r.options.ChildList {
			return false
		}
	case CharacterData:
		if !r.options.CharacterData {
			return false
		}
	}
	if rec.Target == r.target {
		return true
	}
	return r.options.Subtree && r.target.Contains(rec.Target)
}

func (d *Document) unregister(o *MutationObserver) {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.registrations[:0]
	for _, r := range d.registrations {
		if r.observer != o {
			kept = append(kept, r)
		}
	}
	d.registrations = kept
}

// queue hands rec to every observer with a matching registration, once per observer.
func (d *Document) queue(rec MutationRecord) {
	if d == nil {
		return
	}
	d.mu.Lock()
	regs := make([]registration, 0, len(d.registrations))
	for _, r := range d.registrations {
		regs = append(regs, *r)
	}
	d.mu.Unlock()

	notified := make(map[*MutationObserver]bool)
	for _, r := range regs {
		if notified[r.observer] || !r.matches(rec) {
			continue
		}
		notified[r.observer] = true
		r.observer.enqueue(rec)
	}
}
