package bilibili

import "github.com/patrickprogramme/ccviewer/pkg/model"

// apiResponse est l'enveloppe commune des réponses de api.bilibili.com.
type apiResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// playerData : sous-ensemble de /x/player/v2.
type playerData struct {
	AID      int64  `json:"aid"`
	BVID     string `json:"bvid"`
	CID      int64  `json:"cid"`
	Subtitle struct {
		AllowSubmit bool          `json:"allow_submit"`
		Subtitles   []rawSubtitle `json:"subtitles"`
	} `json:"subtitle"`
}

type rawSubtitle struct {
	ID          int64  `json:"id"`
	Lan         string `json:"lan"`
	LanDoc      string `json:"lan_doc"`
	SubtitleURL string `json:"subtitle_url"`
	AIType      int    `json:"ai_type"`
	AIStatus    int    `json:"ai_status"`
}

func (r rawSubtitle) toTrack() model.SubtitleTrack {
	return model.SubtitleTrack{
		ID:      r.ID,
		Lang:    r.Lan,
		LangDoc: r.LanDoc,
		URL:     normalizeURL(r.SubtitleURL),
		AI:      r.AIType != 0 || r.AIStatus != 0,
	}
}

// Page : une entrée de /x/player/pagelist.
type Page struct {
	CID      int64  `json:"cid"`
	Page     int    `json:"page"`
	Part     string `json:"part"`
	Duration int64  `json:"duration"`
}

// viewData : sous-ensemble de /x/web-interface/view.
type viewData struct {
	AID   int64  `json:"aid"`
	BVID  string `json:"bvid"`
	CID   int64  `json:"cid"`
	Title string `json:"title"`
}
