package domain

// StoryRequest は1回の絵本生成ジョブへの入力です。
// ジョブの開始時に一度だけ構築され、以降は変更されません。
type StoryRequest struct {
	SubjectName string `json:"subject_name"`
	Age         string `json:"age"`
	Theme       string `json:"theme"`
	Tone        string `json:"tone"`
	PageCount   int    `json:"page_count"`
}

// Story は AI モデルから返される絵本全体の構造です。
type Story struct {
	Title    string `json:"title"`
	Synopsis string `json:"synopsis"`
	Pages    []Page `json:"pages"`
}

// Page は絵本の1ページ分の本文と挿絵の描写指示を保持します。
// ページ番号は1始まりですが、連番であることは保証されません。
type Page struct {
	PageNumber       int    `json:"page"`
	Text             string `json:"page_text"`
	ImageDescription string `json:"image_description"`
}

// IllustrationResult は1ページ分の挿絵生成の結果なのだ。
// ImageBytes が nil のときは「挿絵なし」を意味するのだ（失敗ではないのだよ）。
type IllustrationResult struct {
	Page       Page
	ImageBytes []byte
}

// HasImage は挿絵の生成に成功したかどうかを返すのだ。
func (r IllustrationResult) HasImage() bool {
	return len(r.ImageBytes) > 0
}
