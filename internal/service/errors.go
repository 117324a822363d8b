package service

import "errors"

var (
	ErrInternal             = errors.New("internal server error")
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotPostAuthor        = errors.New("only the author can modify this post")
	ErrAlreadyLiked         = errors.New("already liked")
	ErrNotLiked             = errors.New("not liked")
	ErrSelfFollow           = errors.New("cannot follow yourself")
	ErrAlreadyFollowing     = errors.New("already following this user")
	ErrNotFollowing         = errors.New("not following this user")
	ErrAlreadySaved         = errors.New("post is already saved")
	ErrNotSaved             = errors.New("post is not saved")
	ErrParentMismatch       = errors.New("parent comment belongs to a different post")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrFileMustBeImage      = errors.New("file must be an image")
	ErrFailedToUploadImage  = errors.New("failed to upload image to storage")
)
