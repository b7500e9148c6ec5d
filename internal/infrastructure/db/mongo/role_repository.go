package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shoplane/auth-api/internal/core/domain"
)

const (
	roleCollection      = "roles"
	routeRoleCollection = "route_roles"
)

type MongoRoleRepository struct {
	roles      *mongo.Collection
	routeRoles *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{
		roles:      db.Collection(roleCollection),
		routeRoles: db.Collection(routeRoleCollection),
	}
}

type mongoRole struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt int64              `bson:"created_at"`
}

type mongoRouteRole struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Method  string             `bson:"method"`
	Pattern string             `bson:"route"`
	RoleID  string             `bson:"role_id"`
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var mr mongoRole
	if err := r.roles.FindOne(ctx, bson.M{"name": name}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrForbidden
		}
		return nil, infraErr("find role by name", err)
	}
	return &domain.Role{ID: mr.ID.Hex(), Name: mr.Name, CreatedAt: unixToTime(mr.CreatedAt)}, nil
}

// ListPolicies reads the whole role→route table. The resolver calls this
// on every cache refresh, so policy edits land without a restart.
func (r *MongoRoleRepository) ListPolicies(ctx context.Context) ([]domain.RoutePolicy, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.routeRoles.Find(ctx, bson.M{})
	if err != nil {
		return nil, infraErr("list route policies", err)
	}
	defer cur.Close(ctx)

	var out []domain.RoutePolicy
	for cur.Next(ctx) {
		var mrr mongoRouteRole
		if err := cur.Decode(&mrr); err != nil {
			return nil, infraErr("decode route policy", err)
		}
		out = append(out, domain.RoutePolicy{
			ID:      mrr.ID.Hex(),
			Method:  mrr.Method,
			Pattern: mrr.Pattern,
			RoleID:  mrr.RoleID,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, infraErr("iterate route policies", err)
	}
	return out, nil
}
