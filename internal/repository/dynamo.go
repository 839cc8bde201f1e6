package repository

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/joseph-ayodele/facility-ledger/internal/common"
	"github.com/joseph-ayodele/facility-ledger/internal/ledger"
)

// DynamoAPI is the subset of *dynamodb.Client the repository uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type pricePointItem struct {
	Date  string  `dynamodbav:"date"`
	Price float64 `dynamodbav:"price"`
}

// entryItem is the DynamoDB shape of an entry. Table requirements:
//   - PK: id (string)
//
// seq is assigned on first write and preserved afterwards; List sorts on it.
type entryItem struct {
	ID              string           `dynamodbav:"id"`
	Seq             int64            `dynamodbav:"seq"`
	Quantity        float64          `dynamodbav:"quantity"`
	UnitCost        float64          `dynamodbav:"unit_cost"`
	TaxRate         float64          `dynamodbav:"tax_rate"`
	Discount        float64          `dynamodbav:"discount"`
	Total           float64          `dynamodbav:"total"`
	OCRText         string           `dynamodbav:"ocr_text"`
	FileName        string           `dynamodbav:"file_name"`
	StoredFileName  string           `dynamodbav:"stored_file_name"`
	FilePath        string           `dynamodbav:"file_path"`
	Description     string           `dynamodbav:"description"`
	Vendor          string           `dynamodbav:"vendor"`
	Category        string           `dynamodbav:"category"`
	Currency        string           `dynamodbav:"currency"`
	Date            string           `dynamodbav:"entry_date"`
	Status          string           `dynamodbav:"status"`
	Notes           string           `dynamodbav:"notes"`
	Building        string           `dynamodbav:"building"`
	Floor           string           `dynamodbav:"floor"`
	Room            string           `dynamodbav:"room"`
	MaintenanceType string           `dynamodbav:"maintenance_type"`
	Priority        string           `dynamodbav:"priority"`
	AssignedTo      string           `dynamodbav:"assigned_to"`
	DueDate         string           `dynamodbav:"due_date"`
	ServiceProvider string           `dynamodbav:"service_provider"`
	InvoiceNumber   string           `dynamodbav:"invoice_number"`
	PaymentStatus   string           `dynamodbav:"payment_status"`
	WarrantyExpiry  string           `dynamodbav:"warranty_expiry"`
	PriceHistory    []pricePointItem `dynamodbav:"price_history"`
}

// DynamoRepository persists entries in a DynamoDB table.
type DynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	logger    *slog.Logger

	mu      sync.Mutex
	lastSeq int64
	now     func() time.Time
}

var _ ledger.Repository = (*DynamoRepository)(nil)

func NewDynamoRepository(ddb DynamoAPI, tableName string, logger *slog.Logger) *DynamoRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if tableName == "" {
		tableName = entriesTable
	}
	return &DynamoRepository{ddb: ddb, tableName: tableName, logger: logger, now: time.Now}
}

// NewDynamoClient builds a client for the configured region. A non-empty
// endpoint points the client at a local DynamoDB with static credentials.
func NewDynamoClient(ctx context.Context, cfg common.DynamoConfig) (*dynamodb.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		// Local DynamoDB does not validate credentials, but the SDK requires them.
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func (r *DynamoRepository) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func (r *DynamoRepository) Get(ctx context.Context, id string) (*ledger.Entry, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		r.logger.Error("failed to get entry", "entry_id", id, "error", err)
		return nil, storageErr("get entry", err)
	}
	if len(out.Item) == 0 {
		return nil, ledger.ErrEntryNotFound
	}
	var it entryItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, storageErr("decode entry", err)
	}
	return fromEntryItem(it), nil
}

func (r *DynamoRepository) Put(ctx context.Context, e *ledger.Entry) error {
	seq, err := r.seqFor(ctx, e.ID)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(toEntryItem(e, seq))
	if err != nil {
		return storageErr("encode entry", err)
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to put entry", "entry_id", e.ID, "error", err)
		return storageErr("put entry", err)
	}
	return nil
}

// seqFor returns the stored seq of id, or a new strictly increasing one.
func (r *DynamoRepository) seqFor(ctx context.Context, id string) (int64, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      r.key(id),
		ProjectionExpression:     aws.String("#seq"),
		ExpressionAttributeNames: map[string]string{"#seq": "seq"},
		ConsistentRead:           aws.Bool(true),
	})
	if err != nil {
		return 0, storageErr("get entry", err)
	}
	if len(out.Item) > 0 {
		var it struct {
			Seq int64 `dynamodbav:"seq"`
		}
		if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
			return 0, storageErr("decode entry", err)
		}
		return it.Seq, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	seq := r.now().UnixNano()
	if seq <= r.lastSeq {
		seq = r.lastSeq + 1
	}
	r.lastSeq = seq
	return seq, nil
}

func (r *DynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 r.key(id),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ledger.ErrEntryNotFound
		}
		r.logger.Error("failed to delete entry", "entry_id", id, "error", err)
		return storageErr("delete entry", err)
	}
	return nil
}

func (r *DynamoRepository) List(ctx context.Context) ([]*ledger.Entry, error) {
	items := make([]entryItem, 0)
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			r.logger.Error("failed to scan entries", "error", err)
			return nil, storageErr("list entries", err)
		}
		var batch []entryItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, storageErr("decode entries", err)
		}
		items = append(items, batch...)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Seq < items[j].Seq })

	out := make([]*ledger.Entry, 0, len(items))
	for _, it := range items {
		out = append(out, fromEntryItem(it))
	}
	return out, nil
}

func toEntryItem(e *ledger.Entry, seq int64) entryItem {
	hist := make([]pricePointItem, 0, len(e.PriceHistory))
	for _, p := range e.PriceHistory {
		hist = append(hist, pricePointItem{Date: p.Date, Price: p.Price})
	}
	return entryItem{
		ID: e.ID, Seq: seq,
		Quantity: e.Quantity, UnitCost: e.UnitCost, TaxRate: e.TaxRate, Discount: e.Discount, Total: e.Total,
		OCRText: e.OCRText, FileName: e.FileName, StoredFileName: e.StoredFileName, FilePath: e.FilePath,
		Description: e.Description, Vendor: e.Vendor, Category: e.Category, Currency: e.Currency,
		Date: e.Date, Status: e.Status, Notes: e.Notes,
		Building: e.Building, Floor: e.Floor, Room: e.Room, MaintenanceType: e.MaintenanceType,
		Priority: e.Priority, AssignedTo: e.AssignedTo, DueDate: e.DueDate,
		ServiceProvider: e.ServiceProvider, InvoiceNumber: e.InvoiceNumber,
		PaymentStatus: e.PaymentStatus, WarrantyExpiry: e.WarrantyExpiry,
		PriceHistory: hist,
	}
}

func fromEntryItem(it entryItem) *ledger.Entry {
	hist := make([]ledger.PricePoint, 0, len(it.PriceHistory))
	for _, p := range it.PriceHistory {
		hist = append(hist, ledger.PricePoint{Date: p.Date, Price: p.Price})
	}
	return &ledger.Entry{
		ID:       it.ID,
		Quantity: it.Quantity, UnitCost: it.UnitCost, TaxRate: it.TaxRate, Discount: it.Discount, Total: it.Total,
		OCRText: it.OCRText, FileName: it.FileName, StoredFileName: it.StoredFileName, FilePath: it.FilePath,
		Description: it.Description, Vendor: it.Vendor, Category: it.Category, Currency: it.Currency,
		Date: it.Date, Status: it.Status, Notes: it.Notes,
		Building: it.Building, Floor: it.Floor, Room: it.Room, MaintenanceType: it.MaintenanceType,
		Priority: it.Priority, AssignedTo: it.AssignedTo, DueDate: it.DueDate,
		ServiceProvider: it.ServiceProvider, InvoiceNumber: it.InvoiceNumber,
		PaymentStatus: it.PaymentStatus, WarrantyExpiry: it.WarrantyExpiry,
		PriceHistory: hist,
	}
}
