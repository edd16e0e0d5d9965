// config/db.go
package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection         = "users"
	StaffProfilesCollection = "staff_profiles"
	TasksCollection         = "tasks"
	AssignmentsCollection   = "task_assignments"
	PaymentsCollection      = "payments"
	ExpensesCollection      = "expenses"
	TaxesCollection         = "taxes"
	FilesCollection         = "files"
)

// ConnectDB establishes connection to MongoDB
func ConnectDB() *mongo.Client {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = os.Getenv("MONGODB_URI")
	}
	if mongoURI == "" {
		log.Fatal("MONGO_URI or MONGODB_URI environment variable is required")
	}

	log.Printf("Connecting to MongoDB at: %s", maskMongoURI(mongoURI))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("MongoDB ping error:", err)
	}

	log.Println("Connected to MongoDB")

	setupCollections(client)

	return client
}

// DBName returns the configured database name.
func DBName() string {
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "studio"
	}
	return dbName
}

// GetCollection returns MongoDB collection
func GetCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(DBName()).Collection(collectionName)
}

// setupCollections ensures the indexes the query contracts rely on.
func setupCollections(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(DBName())

	type indexSpec struct {
		collection string
		keys       bson.D
		unique     bool
	}

	specs := []indexSpec{
		{UsersCollection, bson.D{{Key: "username", Value: 1}}, true},
		{UsersCollection, bson.D{{Key: "status", Value: 1}}, false},
		{StaffProfilesCollection, bson.D{{Key: "user_id", Value: 1}}, true},
		{TasksCollection, bson.D{{Key: "status", Value: 1}}, false},
		{TasksCollection, bson.D{{Key: "created_at", Value: 1}}, false},
		{AssignmentsCollection, bson.D{{Key: "task_id", Value: 1}}, false},
		{AssignmentsCollection, bson.D{{Key: "staff_id", Value: 1}}, false},
		{AssignmentsCollection, bson.D{{Key: "payment_status", Value: 1}}, false},
		// One assignment per (task, staff) pair.
		{AssignmentsCollection, bson.D{{Key: "task_id", Value: 1}, {Key: "staff_id", Value: 1}}, true},
		{PaymentsCollection, bson.D{{Key: "staff_id", Value: 1}}, false},
		{PaymentsCollection, bson.D{{Key: "status", Value: 1}}, false},
		{PaymentsCollection, bson.D{{Key: "created_at", Value: 1}}, false},
		{ExpensesCollection, bson.D{{Key: "type", Value: 1}}, false},
		{ExpensesCollection, bson.D{{Key: "date", Value: 1}}, false},
		{ExpensesCollection, bson.D{{Key: "created_at", Value: 1}}, false},
		{TaxesCollection, bson.D{{Key: "tax_status", Value: 1}}, false},
		{TaxesCollection, bson.D{{Key: "task_id", Value: 1}}, false},
		{TaxesCollection, bson.D{{Key: "created_at", Value: 1}}, false},
	}

	for _, spec := range specs {
		model := mongo.IndexModel{Keys: spec.keys}
		if spec.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, model); err != nil {
			log.Printf("Error creating index on %s: %v", spec.collection, err)
		}
	}

	log.Println("Database collections and indexes setup complete")
}

// maskMongoURI masks the password in MongoDB URI for logging
func maskMongoURI(uri string) string {
	if idx := strings.Index(uri, "@"); idx > 0 {
		if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx > 0 {
			return uri[:colonIdx+1] + "***" + uri[idx:]
		}
	}
	return uri
}
