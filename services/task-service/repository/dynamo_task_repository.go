package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/models"
)

// DynamoAPI is the subset of the DynamoDB client used by the repository.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoTaskRepository stores tasks in a table with primary key `taskId` (string).
type DynamoTaskRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoTaskRepository(client DynamoAPI, table string) *DynamoTaskRepository {
	return &DynamoTaskRepository{client: client, table: table}
}

func (r *DynamoTaskRepository) key(taskID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"taskId": &types.AttributeValueMemberS{Value: taskID}}
}

func (r *DynamoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String(r.table), Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (r *DynamoTaskRepository) FindByID(ctx context.Context, taskID string) (*models.Task, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: aws.String(r.table), Key: r.key(taskID)})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrTaskNotFound
	}
	var task models.Task
	if err := attributevalue.UnmarshalMap(out.Item, &task); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &task, nil
}

// List scans page by page until limit matching items are collected.
func (r *DynamoTaskRepository) List(ctx context.Context, status string, limit int) ([]models.Task, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.table)}
	if status != "" {
		expr, err := expression.NewBuilder().
			WithFilter(expression.Name("status").Equal(expression.Value(status))).
			Build()
		if err != nil {
			return nil, fmt.Errorf("build filter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	tasks := make([]models.Task, 0)
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		var batch []models.Task
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		for _, t := range batch {
			tasks = append(tasks, t)
			if limit > 0 && len(tasks) >= limit {
				return tasks, nil
			}
		}
	}
	return tasks, nil
}

// Update fails with ErrTaskNotFound if the item disappeared since it was read.
func (r *DynamoTaskRepository) Update(ctx context.Context, taskID string, req *models.UpdateTaskRequest, updatedAt string) (*models.Task, error) {
	update := expression.Set(expression.Name("updatedAt"), expression.Value(updatedAt))
	if req.Title != nil {
		update = update.Set(expression.Name("title"), expression.Value(*req.Title))
	}
	if req.Description != nil {
		update = update.Set(expression.Name("description"), expression.Value(*req.Description))
	}
	if req.Status != nil {
		update = update.Set(expression.Name("status"), expression.Value(*req.Status))
	}
	if req.Priority != nil {
		update = update.Set(expression.Name("priority"), expression.Value(*req.Priority))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("taskId"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(taskID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("dynamodb UpdateItem failed: %w", err)
	}

	var task models.Task
	if err := attributevalue.UnmarshalMap(out.Attributes, &task); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	return &task, nil
}

func (r *DynamoTaskRepository) Delete(ctx context.Context, taskID string) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("taskId"))).
		Build()
	if err != nil {
		return fmt.Errorf("build condition: %w", err)
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.table),
		Key:                      r.key(taskID),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
