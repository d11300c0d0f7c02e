package handler

import "github.com/snapboard/webclient/internal/core/domain"

// urlResolver turns stored image paths into URLs the browser can load.
type urlResolver interface {
	ImageURL(path string) string
}

func resolveImage(r urlResolver, img domain.Image) domain.Image {
	img.ImageURL = r.ImageURL(img.ImageURL)
	if img.UserProfilePicture != "" {
		img.UserProfilePicture = r.ImageURL(img.UserProfilePicture)
	}
	return img
}

func resolveImages(r urlResolver, imgs []domain.Image) []domain.Image {
	out := make([]domain.Image, len(imgs))
	for i, img := range imgs {
		out[i] = resolveImage(r, img)
	}
	return out
}

func resolveUser(r urlResolver, u domain.User) domain.User {
	if u.ProfilePicture != "" {
		u.ProfilePicture = r.ImageURL(u.ProfilePicture)
	}
	return u
}

func resolveUsers(r urlResolver, users []domain.User) []domain.User {
	out := make([]domain.User, len(users))
	for i, u := range users {
		out[i] = resolveUser(r, u)
	}
	return out
}

func resolveComments(r urlResolver, comments []domain.Comment) []domain.Comment {
	out := make([]domain.Comment, len(comments))
	for i, cm := range comments {
		if cm.UserProfilePicture != "" {
			cm.UserProfilePicture = r.ImageURL(cm.UserProfilePicture)
		}
		if len(cm.Replies) > 0 {
			cm.Replies = resolveComments(r, cm.Replies)
		}
		out[i] = cm
	}
	return out
}
