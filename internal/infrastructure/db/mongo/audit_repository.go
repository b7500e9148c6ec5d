package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shoplane/auth-api/internal/core/domain"
)

const auditCollection = "login_audit"

type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAudit struct {
	Username   string `bson:"username"`
	Platform   string `bson:"platform"`
	Outcome    string `bson:"outcome"`
	RetryCount int    `bson:"retry_count,omitempty"`
	At         int64  `bson:"at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, entry domain.LoginAudit) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := mongoAudit{
		Username:   entry.Username,
		Platform:   string(entry.Platform),
		Outcome:    string(entry.Outcome),
		RetryCount: entry.RetryCount,
		At:         entry.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return infraErr("insert login audit", err)
	}
	return nil
}
