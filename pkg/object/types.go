package object

// Hash is a 40-character lowercase hex-encoded SHA-1 digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
	TypeTag    ObjectType = "tag"
)

const (
	// Tree mode constants compatible with Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
	TreeModeSymlink    = "120000"
	TreeModeGitlink    = "160000"
)

// Valid reports whether t is one of the four known object types.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit, TypeTag:
		return true
	}
	return false
}

// Object is one of *Blob, *Tree, *Commit or *Tag. The set is closed: the
// unexported marker keeps other packages from adding variants.
type Object interface {
	Type() ObjectType
	object()
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

func (*Blob) Type() ObjectType { return TypeBlob }
func (*Blob) object()          {}

// TreeEntry is one entry in a tree object.
//
// Mode is always six characters once parsed; five-digit modes such as
// "40000" are stored left-padded with a space.
type TreeEntry struct {
	Mode string
	Path string
	Hash Hash
}

// IsDir reports whether the entry points at a subtree.
func (e TreeEntry) IsDir() bool {
	return normalizeMode(e.Mode) == " "+TreeModeDir
}

// Tree holds the entries of a directory.
type Tree struct {
	Entries []TreeEntry
}

func (*Tree) Type() ObjectType { return TypeTree }
func (*Tree) object()          {}

// Commit is a KVLM-encoded commit object.
type Commit struct {
	*KVLM
}

// NewCommit returns an empty commit.
func NewCommit() *Commit {
	return &Commit{KVLM: NewKVLM()}
}

func (*Commit) Type() ObjectType { return TypeCommit }
func (*Commit) object()          {}

// TreeHash returns the commit's "tree" header.
func (c *Commit) TreeHash() Hash {
	v, _ := c.Get("tree")
	return Hash(v)
}

// Parents returns the commit's "parent" headers in order. Root commits
// have none; merges have two or more.
func (c *Commit) Parents() []Hash {
	vals := c.Values("parent")
	out := make([]Hash, len(vals))
	for i, v := range vals {
		out[i] = Hash(v)
	}
	return out
}

// Tag is a KVLM-encoded annotated tag object.
type Tag struct {
	*KVLM
}

// NewTag returns an empty tag.
func NewTag() *Tag {
	return &Tag{KVLM: NewKVLM()}
}

func (*Tag) Type() ObjectType { return TypeTag }
func (*Tag) object()          {}

// Target returns the hash in the tag's "object" header.
func (t *Tag) Target() Hash {
	v, _ := t.Get("object")
	return Hash(v)
}

// TargetType returns the tag's "type" header.
func (t *Tag) TargetType() ObjectType {
	v, _ := t.Get("type")
	return ObjectType(v)
}

// Name returns the tag's "tag" header.
func (t *Tag) Name() string {
	v, _ := t.Get("tag")
	return v
}
