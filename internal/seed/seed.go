// Package seed loads starter excerpts and accounts from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"typist/internal/app"
)

type File struct {
	Excerpts []Excerpt `yaml:"excerpts"`
	Users    []User    `yaml:"users"`
}

type Excerpt struct {
	Body string `yaml:"body"`
}

type User struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	UserName  string `yaml:"user_name"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	ImgURL    string `yaml:"img_url"`
	IsAdmin   bool   `yaml:"is_admin"`
}

type Result struct {
	Excerpts     int
	Users        int
	SkippedUsers int
}

func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed file failed: %w", err)
	}
	return &f, nil
}

func ReadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file failed: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Apply inserts the excerpts in one batch and registers each user. Users
// whose email is already taken are skipped.
func Apply(ctx context.Context, f *File, excerpts *app.ExcerptService, auth *app.AuthService, log logrus.FieldLogger) (Result, error) {
	var res Result

	if len(f.Excerpts) > 0 {
		bodies := make([]string, 0, len(f.Excerpts))
		for _, e := range f.Excerpts {
			bodies = append(bodies, e.Body)
		}
		created, err := excerpts.Import(ctx, bodies)
		if err != nil {
			return res, err
		}
		res.Excerpts = len(created)
	}

	for _, u := range f.Users {
		_, err := auth.Register(ctx, app.RegisterInput{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			UserName:  u.UserName,
			Email:     u.Email,
			Password:  u.Password,
			ImgURL:    u.ImgURL,
			IsAdmin:   u.IsAdmin,
		})
		if errors.Is(err, app.ErrIntegrity) {
			log.WithField("email", u.Email).Warn("seed user already exists, skipped")
			res.SkippedUsers++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed user %q: %w", u.Email, err)
		}
		res.Users++
	}
	return res, nil
}
