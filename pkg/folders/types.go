// Package folders models the map bookmark folder API: the paginated list of
// shared folders and the per-folder bookmark listing.
package folders

// Folder is one entry of a shares page. Only ShareID is required; the other
// fields are carried for logging and are zero when the server omits them.
type Folder struct {
	ShareID  string `json:"shareId"`
	FolderID int64  `json:"folderId,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SharesPage is one response of the shares listing endpoint.
type SharesPage struct {
	TotalFolderCount int      `json:"totalFolderCount"`
	Folders          []Folder `json:"folders"`
}

// ShareIDs returns the non-empty share ids of the page in server order.
func (p *SharesPage) ShareIDs() []string {
	ids := make([]string, 0, len(p.Folders))
	for _, f := range p.Folders {
		if f.ShareID != "" {
			ids = append(ids, f.ShareID)
		}
	}
	return ids
}

// FolderInfo is the folder metadata returned with a bookmark listing.
// Times are epoch milliseconds.
type FolderInfo struct {
	FolderID     int64  `json:"folderId"`
	ShareID      string `json:"shareId"`
	Name         string `json:"name"`
	Memo         string `json:"memo,omitempty"`
	LastUseTime  int64  `json:"lastUseTime,omitempty"`
	CreationTime int64  `json:"creationTime,omitempty"`
	FollowCount  int    `json:"followCount,omitempty"`
	ViewCount    int    `json:"viewCount,omitempty"`
}

// BookmarkTypePlace marks bookmarks that point at a place.
const BookmarkTypePlace = "place"

// Bookmark is one entry of a folder's bookmark list.
type Bookmark struct {
	Type string `json:"type"`
	SID  string `json:"sid"`
}

// BookmarksResponse is the body of the folder bookmarks endpoint.
type BookmarksResponse struct {
	Folder       FolderInfo `json:"folder"`
	BookmarkList []Bookmark `json:"bookmarkList"`
}

// PlaceIDs returns the sids of place bookmarks in list order.
func (r *BookmarksResponse) PlaceIDs() []string {
	ids := make([]string, 0, len(r.BookmarkList))
	for _, b := range r.BookmarkList {
		if b.Type == BookmarkTypePlace && b.SID != "" {
			ids = append(ids, b.SID)
		}
	}
	return ids
}
