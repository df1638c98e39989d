package timings

// Initializer is the post-construction hook. When a materialized type
// implements it on its pointer receiver, Init runs once every field has been
// populated, on fresh and shared instances alike.
//
// Use it to compute derived fields or to reject an instance whose populated
// state is inconsistent. A returned error aborts the enclosing Create call.
type Initializer interface {
	Init() error
}
