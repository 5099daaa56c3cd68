package textgen

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

func TestStubGenerator_GenerateStory(t *testing.T) {
	gen := NewStubGenerator()

	t.Run("ページ数1〜20でリクエスト通りのページ数になること", func(t *testing.T) {
		for pages := 1; pages <= 20; pages++ {
			req := domain.StoryRequest{
				SubjectName: "Mina", Age: "6", Theme: "ocean", Tone: "playful", PageCount: pages,
			}
			story, err := gen.GenerateStory(context.Background(), req)
			if err != nil {
				t.Fatalf("スタブ生成でエラーが発生しました (pages=%d): %v", pages, err)
			}
			if len(story.Pages) != pages {
				t.Errorf("期待ページ数 %d, 実際 %d", pages, len(story.Pages))
			}
		}
	})

	t.Run("タイトルとあらすじが入力から合成されること", func(t *testing.T) {
		req := domain.StoryRequest{SubjectName: "Mina", Age: "6", Theme: "ocean", Tone: "playful", PageCount: 4}
		story, err := gen.GenerateStory(context.Background(), req)
		if err != nil {
			t.Fatal(err)
		}
		if story.Title != "Mina and the Ocean Adventure" {
			t.Errorf("タイトルが期待と異なります: %s", story.Title)
		}
		if story.Synopsis != "A short playful tale about Mina." {
			t.Errorf("あらすじが期待と異なります: %s", story.Synopsis)
		}
		for i, page := range story.Pages {
			if page.PageNumber != i+1 {
				t.Errorf("ページ番号が1始まりの連番ではありません: %d", page.PageNumber)
			}
			if page.Text == "" || page.ImageDescription == "" {
				t.Errorf("ページ %d の本文または挿絵描写が空です", page.PageNumber)
			}
		}
	})

	t.Run("同じ入力からは必ず同じ台本が生成されること", func(t *testing.T) {
		req := domain.StoryRequest{SubjectName: "Theo", Age: "4", Theme: "space", Tone: "gentle", PageCount: 3}
		s1, _ := gen.GenerateStory(context.Background(), req)
		s2, _ := gen.GenerateStory(context.Background(), req)
		if !reflect.DeepEqual(s1, s2) {
			t.Error("スタブ台本が決定論的ではありません")
		}
	})
}

func ExampleStubGenerator_GenerateStory() {
	gen := NewStubGenerator()
	req := domain.StoryRequest{SubjectName: "Mina", Age: "6", Theme: "ocean", Tone: "playful", PageCount: 2}
	story, _ := gen.GenerateStory(context.Background(), req)
	fmt.Println(story.Title)
	fmt.Println(len(story.Pages))
	// Output:
	// Mina and the Ocean Adventure
	// 2
}
