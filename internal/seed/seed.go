// Package seed loads initial site content from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/alextreichler/webstudio/internal/i18n"
	"github.com/alextreichler/webstudio/internal/models"
)

// File is the top level of a seed document.
type File struct {
	Contact  *Contact  `yaml:"contact"`
	Articles []Article `yaml:"articles"`
	Projects []Project `yaml:"projects"`
}

type Contact struct {
	Phone     string  `yaml:"phone"`
	Email     string  `yaml:"email"`
	Address   string  `yaml:"address"`
	WhatsApp  string  `yaml:"whatsapp_link"`
	Telegram  string  `yaml:"telegram_link"`
	Facebook  *string `yaml:"facebook_link"`
	Instagram *string `yaml:"instagram_link"`
}

type Article struct {
	Title        string                                `yaml:"title"`
	Excerpt      string                                `yaml:"excerpt"`
	Content      string                                `yaml:"content"`
	Image        string                                `yaml:"image"`
	Category     string                                `yaml:"category"`
	CategoryKey  string                                `yaml:"category_key"`
	ReadTime     int                                   `yaml:"read_time"`
	Date         string                                `yaml:"date"`
	Translations map[string]models.ArticleTranslation `yaml:"translations"`
}

type Project struct {
	Type         string                                `yaml:"type"`
	Title        string                                `yaml:"title"`
	Category     string                                `yaml:"category"`
	Image        string                                `yaml:"image"`
	Images       []string                              `yaml:"images"`
	Problem      string                                `yaml:"problem"`
	Solution     string                                `yaml:"solution"`
	Result       string                                `yaml:"result"`
	Website      *string                               `yaml:"website"`
	Technologies []string                              `yaml:"technologies"`
	Client       *string                               `yaml:"client"`
	Date         *string                               `yaml:"date"`
	Translations map[string]models.ProjectTranslation `yaml:"translations"`
}

// Target receives the seeded records. *store.Store satisfies it.
type Target interface {
	CreateArticle(ctx context.Context, a *models.Article) error
	CreateProject(ctx context.Context, p *models.Project) error
	SaveContact(ctx context.Context, c *models.Contact) error
}

// Summary counts what Apply wrote.
type Summary struct {
	Articles int
	Projects int
	Contact  bool
}

// Parse decodes and validates a seed document.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	for i, a := range f.Articles {
		if a.Title == "" {
			return fmt.Errorf("article %d: title is required", i+1)
		}
		if !models.CategoryKey(a.CategoryKey).Valid() {
			return fmt.Errorf("article %q: invalid category_key %q", a.Title, a.CategoryKey)
		}
		if err := checkLocales(a.Translations); err != nil {
			return fmt.Errorf("article %q: %w", a.Title, err)
		}
	}
	for i, p := range f.Projects {
		if p.Title == "" {
			return fmt.Errorf("project %d: title is required", i+1)
		}
		if !models.ProjectType(p.Type).Valid() {
			return fmt.Errorf("project %q: invalid type %q", p.Title, p.Type)
		}
		if err := checkLocales(p.Translations); err != nil {
			return fmt.Errorf("project %q: %w", p.Title, err)
		}
	}
	return nil
}

func checkLocales[T any](m map[string]T) error {
	for key := range m {
		if loc := i18n.Locale(key); !loc.Secondary() {
			return fmt.Errorf("unsupported translation locale %q", key)
		}
	}
	return nil
}

func toTranslations[T any](m map[string]T) models.Translations[T] {
	if len(m) == 0 {
		return nil
	}
	out := make(models.Translations[T], len(m))
	for key, block := range m {
		out[i18n.Locale(key)] = block
	}
	return out
}

// Apply writes every record of f. Projects are appended after existing ones.
func Apply(ctx context.Context, dst Target, f *File) (Summary, error) {
	var sum Summary
	if f.Contact != nil {
		c := f.Contact
		err := dst.SaveContact(ctx, &models.Contact{
			Phone:         c.Phone,
			Email:         c.Email,
			Address:       c.Address,
			WhatsAppLink:  c.WhatsApp,
			TelegramLink:  c.Telegram,
			FacebookLink:  c.Facebook,
			InstagramLink: c.Instagram,
		})
		if err != nil {
			return sum, fmt.Errorf("save contact: %w", err)
		}
		sum.Contact = true
	}

	for _, a := range f.Articles {
		article := &models.Article{
			Title:        a.Title,
			Excerpt:      a.Excerpt,
			Content:      a.Content,
			Image:        a.Image,
			Category:     a.Category,
			CategoryKey:  models.CategoryKey(a.CategoryKey),
			ReadTime:     a.ReadTime,
			Date:         a.Date,
			Translations: toTranslations(a.Translations),
		}
		if err := dst.CreateArticle(ctx, article); err != nil {
			return sum, fmt.Errorf("create article %q: %w", a.Title, err)
		}
		sum.Articles++
	}

	for _, p := range f.Projects {
		project := &models.Project{
			Type:         models.ProjectType(p.Type),
			Title:        p.Title,
			Category:     p.Category,
			Image:        p.Image,
			Images:       p.Images,
			Problem:      p.Problem,
			Solution:     p.Solution,
			Result:       p.Result,
			Website:      p.Website,
			Technologies: p.Technologies,
			Client:       p.Client,
			Date:         p.Date,
			Translations: toTranslations(p.Translations),
		}
		if err := dst.CreateProject(ctx, project); err != nil {
			return sum, fmt.Errorf("create project %q: %w", p.Title, err)
		}
		sum.Projects++
	}
	return sum, nil
}
