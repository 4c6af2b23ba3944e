// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

// uidAllocator hands out stable, monotonically increasing identifiers
// for scenegraph.Attribute values over the lifetime of one Write
// call. The writer keys its accessor cache on an attribute's uid
// together with the (start, count) range being emitted; a
// morph-relativized clone is a new *scenegraph.Attribute and so gets
// a uid of its own. A uid is only ever assigned once per
// *scenegraph.Attribute and never reclaimed, so a simple counter
// suffices; there is no free-list to manage.
type uidAllocator struct {
	next uint32
}

func newUIDAllocator() *uidAllocator {
	return &uidAllocator{next: 1}
}

// Next returns the next unused uid. Passed as the allocator callback
// to (*scenegraph.Attribute).UID.
func (a *uidAllocator) Next() uint32 {
	u := a.next
	a.next++
	return u
}
