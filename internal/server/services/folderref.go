package services

// FolderRef is the tri-state folder reference carried by a note update:
// leave the note where it is, move it to a folder, or detach it from its
// folder. The three states must stay distinct on the wire; collapsing
// "unchanged" and "detach" silently moves notes.
type FolderRef struct {
	set bool
	id  string
}

// FolderUnchanged leaves the note's folder reference as it is.
func FolderUnchanged() FolderRef { return FolderRef{} }

// FolderMoveTo moves the note into the folder with the given id.
func FolderMoveTo(id string) FolderRef { return FolderRef{set: true, id: id} }

// FolderDetach removes the note from its folder.
func FolderDetach() FolderRef { return FolderRef{set: true} }

// Changed reports whether the reference carries a move or a detach.
func (r FolderRef) Changed() bool { return r.set }

// Target returns the destination folder id, or nil for a detach.
// Only meaningful when Changed is true.
func (r FolderRef) Target() *string {
	if !r.set || r.id == "" {
		return nil
	}
	id := r.id
	return &id
}
