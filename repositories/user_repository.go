// repositories/user_repository.go
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/config"
	"github.com/icrisstudio/studio_backend/models"
)

// UserRepository bundles the user and staff-profile lookups that the auth,
// user, task, and payment controllers all share.
type UserRepository struct {
	users    *mongo.Collection
	profiles *mongo.Collection
}

func NewUserRepository(client *mongo.Client) *UserRepository {
	return &UserRepository{
		users:    config.GetCollection(client, config.UsersCollection),
		profiles: config.GetCollection(client, config.StaffProfilesCollection),
	}
}

// GetUserByID fetches one user. Returns mongo.ErrNoDocuments when absent.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername fetches one user by its unique username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetStaffProfile fetches the profile owned by a user. A missing profile is
// not an error: it returns (nil, nil) because first login has simply not
// happened yet.
func (r *UserRepository) GetStaffProfile(ctx context.Context, userID primitive.ObjectID) (*models.StaffProfile, error) {
	var profile models.StaffProfile
	err := r.profiles.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// StaffNames maps every user id to its display name, for enriching
// payment and assignment listings in one pass.
func (r *UserRepository) StaffNames(ctx context.Context) (map[primitive.ObjectID]string, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	names := make(map[primitive.ObjectID]string)
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		names[user.ID] = user.FullName
	}
	return names, cursor.Err()
}

// ListStaff returns the profile-enriched staff listing. When activeOnly is
// set, disabled accounts are filtered out (the task-assignment picker only
// offers active staff).
func (r *UserRepository) ListStaff(ctx context.Context, activeOnly bool) ([]models.StaffListing, error) {
	filter := bson.M{"role": models.RoleStaff}
	if activeOnly {
		filter["status"] = models.UserStatusActive
	}

	cursor, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	listings := []models.StaffListing{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}

		listing := models.StaffListing{
			ID:             user.ID,
			Username:       user.Username,
			FullName:       user.FullName,
			ProfilePicture: user.ProfilePicture,
			RoleName:       "Not assigned",
			PaymentMethod:  "Not set",
			Status:         user.Status,
		}

		profile, err := r.GetStaffProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			if profile.RoleName != "" {
				listing.RoleName = profile.RoleName
			}
			if profile.PaymentMethod != "" {
				listing.PaymentMethod = profile.PaymentMethod
			}
		}

		listings = append(listings, listing)
	}

	return listings, cursor.Err()
}
