package repository

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter restricts a post scan to one foreign key. The zero value selects every post.
type PostFilter struct {
	GroupID   *uint
	AuthorIDs []uint
	byAuthors bool
}

// AllPosts selects every post.
func AllPosts() PostFilter { return PostFilter{} }

// PostsInGroup selects posts filed under groupID.
func PostsInGroup(groupID uint) PostFilter { return PostFilter{GroupID: &groupID} }

// PostsByAuthor selects posts written by authorID.
func PostsByAuthor(authorID uint) PostFilter { return PostsByAuthors([]uint{authorID}) }

// PostsByAuthors selects posts written by any of authorIDs. An empty set selects nothing.
func PostsByAuthors(authorIDs []uint) PostFilter {
	return PostFilter{AuthorIDs: authorIDs, byAuthors: true}
}

// matchesNothing is true for an author filter over an empty set.
func (f PostFilter) matchesNothing() bool {
	return f.byAuthors && len(f.AuthorIDs) == 0
}

func (f PostFilter) apply(db *gorm.DB) *gorm.DB {
	if f.GroupID != nil {
		db = db.Where("group_id = ?", *f.GroupID)
	}
	switch {
	case !f.byAuthors:
	case len(f.AuthorIDs) == 1:
		db = db.Where("author_id = ?", f.AuthorIDs[0])
	default:
		db = db.Where("author_id IN ?", f.AuthorIDs)
	}
	return db
}

// feedOrder is the one ordering every feed uses: newest first, later insert first on ties.
const feedOrder = "posts.created_at DESC, posts.id DESC"

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	// Scan returns posts matching filter in feed order. limit <= 0 means no limit.
	Scan(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Author").Preload("Group")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return translate(err, "Post", post.ID)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"post_id": post.ID, "author_id": post.AuthorID})

	// return the post as readers will see it
	return r.reload(ctx, post)
}

func (r *postRepository) reload(ctx context.Context, post *models.Post) error {
	var fresh models.Post
	if err := r.withDetails(ctx).First(&fresh, post.ID).Error; err != nil {
		return translate(err, "Post", post.ID)
	}
	*post = fresh
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()

	var post models.Post
	if err := r.withDetails(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()

	// Select forces zero values through, so a cleared group or image is persisted.
	res := r.db.WithContext(ctx).Model(post).
		Omit(clause.Associations).
		Select("Text", "GroupID", "Image", "UpdatedAt").
		Updates(post)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return translate(res.Error, "Post", post.ID)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"post_id": post.ID})

	return r.reload(ctx, post)
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()

	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return translate(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"post_id": id})
	return nil
}

func (r *postRepository) Scan(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error) {
	if filter.matchesNothing() {
		return []models.Post{}, nil
	}
	defer observability.TrackQuery("scan", "posts")()

	q := filter.apply(r.withDetails(ctx)).Order(feedOrder)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	posts := []models.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, translate(err, "Post", "scan")
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	if filter.matchesNothing() {
		return 0, nil
	}
	defer observability.TrackQuery("count", "posts")()

	var n int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&models.Post{})).Count(&n).Error; err != nil {
		return 0, translate(err, "Post", "count")
	}
	return n, nil
}
