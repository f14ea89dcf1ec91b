package domain

// Key, SearchFields and the With* copies let list views treat notes,
// folders and tags alike.

func (n Note) Key() int64               { return n.ID }
func (n Note) SearchFields() []string   { return []string{n.Title, n.Content} }
func (n Note) Favorite() bool           { return n.IsFavorite }
func (n Note) WithFavorite(v bool) Note { n.IsFavorite = v; return n }
func (n Note) WithName(s string) Note   { n.Title = s; return n }

func (f Folder) Key() int64                 { return f.ID }
func (f Folder) SearchFields() []string     { return []string{f.Name, f.Description} }
func (f Folder) Favorite() bool             { return f.IsFavorite }
func (f Folder) WithFavorite(v bool) Folder { f.IsFavorite = v; return f }
func (f Folder) WithName(s string) Folder   { f.Name = s; return f }

func (t Tag) Key() int64             { return t.ID }
func (t Tag) SearchFields() []string { return []string{t.Name} }
func (t Tag) WithName(s string) Tag  { t.Name = s; return t }
