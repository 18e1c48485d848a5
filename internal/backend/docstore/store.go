// Package docstore serves the backend contract straight from MongoDB
// collections, for deployments without the REST service.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/developia-II/langobridge/internal/backend"
	"github.com/developia-II/langobridge/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

const (
	colWordPairs = "word_pairs"
	colRequests  = "word_requests"
	colUsers     = "users"
	colResets    = "password_resets"

	activeWindow   = 30 * 24 * time.Hour
	recentActivity = 5
	minPassword    = 6
)

// ResetSender delivers a password reset token out of band.
type ResetSender func(ctx context.Context, email, token string) error

type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	ResetTTL  time.Duration
	SendReset ResetSender
}

type Store struct {
	db        *mongo.Database
	tokens    *tokenIssuer
	resetTTL  time.Duration
	sendReset ResetSender
	now       func() time.Time
	log       *zap.Logger
}

var _ backend.Backend = (*Store)(nil)

func New(db *mongo.Database, opts Options, log *zap.Logger) *Store {
	log = log.With(zap.String("adapter", "docstore"))
	s := &Store{
		db:        db,
		resetTTL:  opts.ResetTTL,
		sendReset: opts.SendReset,
		now:       time.Now,
		log:       log,
	}
	s.tokens = &tokenIssuer{secret: []byte(opts.JWTSecret), ttl: opts.TokenTTL, now: s.clock}
	if s.sendReset == nil {
		s.sendReset = func(ctx context.Context, email, token string) error {
			log.Info("password reset token issued", zap.String("email", email))
			log.Debug("password reset token", zap.String("email", email), zap.String("token", token))
			return nil
		}
	}
	return s
}

func (s *Store) clock() time.Time { return s.now() }

type wordDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Bangla       string             `bson:"bangla"`
	Korean       string             `bson:"korean"`
	PartOfSpeech string             `bson:"partOfSpeech,omitempty"`
	Examples     []models.Example   `bson:"examples"`
	Source       models.Source      `bson:"source"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d wordDoc) toModel() models.WordPair {
	examples := d.Examples
	if examples == nil {
		examples = []models.Example{}
	}
	source := d.Source
	if source == "" {
		source = models.SourceServer
	}
	return models.WordPair{
		ID:           d.ID.Hex(),
		Bangla:       d.Bangla,
		Korean:       d.Korean,
		PartOfSpeech: d.PartOfSpeech,
		Examples:     examples,
		Source:       source,
		Status:       models.StatusConfirmed,
	}
}

type requestDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Bangla      string               `bson:"bangla"`
	Korean      string               `bson:"korean"`
	Notes       string               `bson:"notes,omitempty"`
	SubmittedBy string               `bson:"submittedBy"`
	Status      models.RequestStatus `bson:"status"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

func (d requestDoc) toModel() models.WordRequest {
	return models.WordRequest{
		ID:          d.ID.Hex(),
		Bangla:      d.Bangla,
		Korean:      d.Korean,
		Notes:       d.Notes,
		SubmittedBy: d.SubmittedBy,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
}

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
	Role        string             `bson:"role"`
	LastLoginAt time.Time          `bson:"lastLoginAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type resetDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	TokenHash string             `bson:"tokenHash"`
	ExpiresAt time.Time          `bson:"expiresAt"`
	Used      bool               `bson:"used"`
}

// searchFilter matches the term case-insensitively inside either field.
func searchFilter(term string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" {
		return bson.M{}
	}
	pattern := regexp.QuoteMeta(term)
	return bson.M{"$or": []bson.M{
		{"bangla": bson.M{"$regex": pattern, "$options": "i"}},
		{"korean": bson.M{"$regex": pattern, "$options": "i"}},
	}}
}

func statusErr(code int, msg string) error {
	return &backend.StatusError{Status: code, Message: msg}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, statusErr(http.StatusBadRequest, "Invalid id")
	}
	return oid, nil
}

func (s *Store) authorize(token string) (*accessClaims, error) {
	claims, err := s.tokens.validate(token)
	if err != nil {
		s.log.Debug("rejecting token", zap.Error(err))
		return nil, statusErr(http.StatusUnauthorized, "Invalid token")
	}
	return claims, nil
}

func (s *Store) ListWordPairs(ctx context.Context, q models.ListQuery) (models.WordPage, error) {
	col := s.db.Collection(colWordPairs)
	filter := searchFilter(q.Search)

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return models.WordPage{}, fmt.Errorf("docstore: count word pairs: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, filter, findOpts)
	if err != nil {
		return models.WordPage{}, fmt.Errorf("docstore: find word pairs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []wordDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return models.WordPage{}, fmt.Errorf("docstore: decode word pairs: %w", err)
	}

	out := models.WordPage{Total: int(total), Data: make([]models.WordPair, 0, len(docs))}
	for _, d := range docs {
		out.Data = append(out.Data, d.toModel())
	}
	return out, nil
}

func (s *Store) CreateWordPair(ctx context.Context, token string, w models.WordPair) (models.WordPair, error) {
	if _, err := s.authorize(token); err != nil {
		return models.WordPair{}, err
	}
	if strings.TrimSpace(w.Bangla) == "" && strings.TrimSpace(w.Korean) == "" {
		return models.WordPair{}, statusErr(http.StatusBadRequest, "Bangla or Korean text is required")
	}

	now := s.now()
	source := w.Source
	if source == "" || source == models.SourceAI || source == models.SourceGoogle {
		source = models.SourceLocal
	}
	doc := wordDoc{
		ID:           primitive.NewObjectID(),
		Bangla:       w.Bangla,
		Korean:       w.Korean,
		PartOfSpeech: w.PartOfSpeech,
		Examples:     w.Examples,
		Source:       source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.db.Collection(colWordPairs).InsertOne(ctx, doc); err != nil {
		return models.WordPair{}, fmt.Errorf("docstore: insert word pair: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) UpdateWordPair(ctx context.Context, token string, w models.WordPair) (models.WordPair, error) {
	if _, err := s.authorize(token); err != nil {
		return models.WordPair{}, err
	}
	oid, err := parseID(w.ID)
	if err != nil {
		return models.WordPair{}, err
	}

	set := bson.M{
		"bangla":       w.Bangla,
		"korean":       w.Korean,
		"partOfSpeech": w.PartOfSpeech,
		"examples":     w.Examples,
		"updatedAt":    s.now(),
	}
	var doc wordDoc
	err = s.db.Collection(colWordPairs).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.WordPair{}, statusErr(http.StatusNotFound, "Word pair not found")
	}
	if err != nil {
		return models.WordPair{}, fmt.Errorf("docstore: update word pair: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) DeleteWordPair(ctx context.Context, token, id string) error {
	if _, err := s.authorize(token); err != nil {
		return err
	}
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(colWordPairs).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("docstore: delete word pair: %w", err)
	}
	if res.DeletedCount == 0 {
		return statusErr(http.StatusNotFound, "Word pair not found")
	}
	return nil
}

func (s *Store) CreateWordRequest(ctx context.Context, in models.WordRequestInput) (models.WordRequest, error) {
	doc := requestDoc{
		ID:          primitive.NewObjectID(),
		Bangla:      in.Bangla,
		Korean:      in.Korean,
		SubmittedBy: in.SubmittedBy,
		Status:      models.RequestPending,
		CreatedAt:   s.now(),
	}
	if _, err := s.db.Collection(colRequests).InsertOne(ctx, doc); err != nil {
		return models.WordRequest{}, fmt.Errorf("docstore: insert word request: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) ListWordRequests(ctx context.Context, token string, status models.RequestStatus) ([]models.WordRequest, error) {
	if _, err := s.authorize(token); err != nil {
		return nil, err
	}

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := s.db.Collection(colRequests).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("docstore: find word requests: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []requestDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("docstore: decode word requests: %w", err)
	}
	out := make([]models.WordRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Store) SetRequestStatus(ctx context.Context, token, id string, status models.RequestStatus) error {
	if _, err := s.authorize(token); err != nil {
		return err
	}
	if status != models.RequestApproved && status != models.RequestRejected {
		return statusErr(http.StatusBadRequest, "Status must be approved or rejected")
	}
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	col := s.db.Collection(colRequests)
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("docstore: update word request: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("docstore: count word request: %w", err)
	}
	if n == 0 {
		return statusErr(http.StatusNotFound, "Word request not found")
	}
	return statusErr(http.StatusConflict, "Word request is no longer pending")
}

func (s *Store) AdminOverview(ctx context.Context, token string) (models.AdminOverview, error) {
	if _, err := s.authorize(token); err != nil {
		return models.AdminOverview{}, err
	}

	var ov models.AdminOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.db.Collection(colWordPairs).CountDocuments(gctx, bson.M{})
		ov.TotalWords = n
		return err
	})
	g.Go(func() error {
		n, err := s.db.Collection(colRequests).CountDocuments(gctx, bson.M{"status": models.RequestPending})
		ov.PendingRequests = n
		return err
	})
	g.Go(func() error {
		since := s.now().Add(-activeWindow)
		n, err := s.db.Collection(colUsers).CountDocuments(gctx, bson.M{"lastLoginAt": bson.M{"$gte": since}})
		ov.ActiveUsers = n
		return err
	})
	g.Go(func() error {
		cursor, err := s.db.Collection(colWordPairs).Find(gctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(recentActivity))
		if err != nil {
			return err
		}
		defer cursor.Close(gctx)

		var docs []wordDoc
		if err := cursor.All(gctx, &docs); err != nil {
			return err
		}
		ov.RecentActivity = make([]models.Activity, 0, len(docs))
		for _, d := range docs {
			ov.RecentActivity = append(ov.RecentActivity, models.Activity{
				ID: d.ID.Hex(), Bangla: d.Bangla, Korean: d.Korean, Timestamp: d.CreatedAt,
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.AdminOverview{}, fmt.Errorf("docstore: admin overview: %w", err)
	}

	ov.LastUpdate = s.now()
	if len(ov.RecentActivity) > 0 {
		ov.LastUpdate = ov.RecentActivity[0].Timestamp
	}
	return ov, nil
}

func (s *Store) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	users := s.db.Collection(colUsers)

	var user userDoc
	if err := users.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LoginResponse{}, statusErr(http.StatusUnauthorized, "Invalid credentials")
		}
		return models.LoginResponse{}, fmt.Errorf("docstore: find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.LoginResponse{}, statusErr(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.tokens.issue(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("docstore: %w", err)
	}

	if _, err := users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"lastLoginAt": s.now()}}); err != nil {
		s.log.Warn("failed to record login time", zap.String("email", user.Email), zap.Error(err))
	}

	return models.LoginResponse{
		User:  models.User{ID: user.ID.Hex(), Email: user.Email, Role: user.Role},
		Token: token,
	}, nil
}

func (s *Store) ResetPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	n, err := s.db.Collection(colUsers).CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("docstore: find user: %w", err)
	}
	if n == 0 {
		return statusErr(http.StatusNotFound, "No account found with that email")
	}

	raw, hash, err := newResetToken()
	if err != nil {
		return fmt.Errorf("docstore: %w", err)
	}
	doc := resetDoc{
		ID:        primitive.NewObjectID(),
		Email:     email,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if _, err := s.db.Collection(colResets).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("docstore: insert reset token: %w", err)
	}
	if err := s.sendReset(ctx, email, raw); err != nil {
		return fmt.Errorf("docstore: send reset: %w", err)
	}
	return nil
}

func (s *Store) VerifyReset(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < minPassword {
		return statusErr(http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters", minPassword))
	}

	resets := s.db.Collection(colResets)
	var doc resetDoc
	err := resets.FindOne(ctx, bson.M{
		"tokenHash": hashToken(resetToken),
		"used":      false,
		"expiresAt": bson.M{"$gt": s.now()},
	}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return statusErr(http.StatusBadRequest, "Reset token is invalid or expired")
	}
	if err != nil {
		return fmt.Errorf("docstore: find reset token: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("docstore: hash password: %w", err)
	}
	if _, err := s.db.Collection(colUsers).UpdateOne(ctx,
		bson.M{"email": doc.Email},
		bson.M{"$set": bson.M{"password": string(hashed), "updatedAt": s.now()}},
	); err != nil {
		return fmt.Errorf("docstore: update password: %w", err)
	}
	if _, err := resets.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{"used": true}}); err != nil {
		return fmt.Errorf("docstore: consume reset token: %w", err)
	}
	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, token string, upd models.AccountUpdate) (string, error) {
	claims, err := s.authorize(token)
	if err != nil {
		return "", err
	}
	oid, err := parseID(claims.Subject)
	if err != nil {
		return "", err
	}

	users := s.db.Collection(colUsers)
	var user userDoc
	if err := users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", statusErr(http.StatusNotFound, "User not found")
		}
		return "", fmt.Errorf("docstore: find user: %w", err)
	}
	if upd.CurrentEmail != "" && !strings.EqualFold(upd.CurrentEmail, user.Email) {
		return "", statusErr(http.StatusForbidden, "Current email does not match this account")
	}

	set := bson.M{"updatedAt": s.now()}
	if email := strings.ToLower(strings.TrimSpace(upd.Email)); email != "" && email != user.Email {
		n, err := users.CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			return "", fmt.Errorf("docstore: count users: %w", err)
		}
		if n > 0 {
			return "", statusErr(http.StatusConflict, "Email is already in use")
		}
		set["email"] = email
	}
	if upd.NewPassword != "" {
		if len(upd.NewPassword) < minPassword {
			return "", statusErr(http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters", minPassword))
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(upd.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("docstore: hash password: %w", err)
		}
		set["password"] = string(hashed)
	}

	if _, err := users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		return "", fmt.Errorf("docstore: update account: %w", err)
	}
	return "Account settings updated successfully", nil
}
