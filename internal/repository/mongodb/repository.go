package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

const reportsCollection = "finance_reports"

// ErrNoReport is returned when the archive holds no snapshot yet.
var ErrNoReport = errors.New("no archived finance report")

// ReportArchive stores finance report snapshots.
type ReportArchive interface {
	SaveFinanceReport(ctx context.Context, report models.FinanceReport) error
	LatestFinanceReport(ctx context.Context) (models.FinanceReport, error)
}

// MongoDBRepository implements ReportArchive for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: reportsCollection,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveFinanceReport inserts a snapshot of report.
func (r *MongoDBRepository) SaveFinanceReport(ctx context.Context, report models.FinanceReport) error {
	doc, err := toReportDocument(report)
	if err != nil {
		return fmt.Errorf("encode finance report: %w", err)
	}
	if _, err := r.collection().InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert finance report: %w", err)
	}
	return nil
}

// LatestFinanceReport returns the most recently generated snapshot.
func (r *MongoDBRepository) LatestFinanceReport(ctx context.Context) (models.FinanceReport, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})

	var doc reportDocument
	if err := r.collection().FindOne(ctx, bson.D{}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.FinanceReport{}, ErrNoReport
		}
		return models.FinanceReport{}, fmt.Errorf("find latest finance report: %w", err)
	}
	return doc.toModel()
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
