package vmmodel

type MediaItem struct {
	ImgURL string `json:"img_url,omitempty"`
	VidURL string `json:"vid_url,omitempty"`
}

func (m MediaItem) URL() string {
	if m.ImgURL != "" {
		return m.ImgURL
	}

	return m.VidURL
}

type Advertisement struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	MediaData []MediaItem `json:"mediaData"`
}

func (a *Advertisement) setID(id string) { a.ID = id }
