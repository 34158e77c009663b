package dynamo

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-account-api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
//
// OTP transitions (ConfirmOTP, ResetPassword) are committed with a
// ConditionExpression on the exact otp value the caller observed, so a
// concurrent reissue or verify makes the losing write fail instead of
// clobbering state.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if conditionFailed(err) {
		return fmt.Errorf("user already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryGSI(ctx, "email-index", "email", email)
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.queryGSI(ctx, "phone-index", "phone", phone)
}

func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(user_id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if conditionFailed(err) {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("user_id", userID),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
	})
	if conditionFailed(err) {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return err
}

// SetOTP stores a pending code unconditionally; reissuing always supersedes
// any previous code or sentinel.
func (r *UserRepo) SetOTP(ctx context.Context, userID, code string, expiresAt int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("user_id", userID),
		UpdateExpression:    aws.String("SET otp = :code, otp_expiry = :exp, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
			":exp":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt)},
			":now":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if conditionFailed(err) {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return err
}

// ConfirmOTP moves the stored code to the VERIFIED sentinel and sets the
// verified flag for the matched channel. The write only commits if the stored
// otp still equals expectedCode; a code superseded by a reissue fails the
// condition and the verify must be rejected.
func (r *UserRepo) ConfirmOTP(ctx context.Context, userID, expectedCode string, channel domain.Channel) error {
	flag := "is_email_verified"
	if channel == domain.ChannelPhone {
		flag = "is_phone_verified"
	}
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("user_id", userID),
		UpdateExpression:    aws.String("SET otp = :verified, #flag = :true, updated_at = :now REMOVE otp_expiry"),
		ConditionExpression: aws.String("otp = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#flag": flag,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":verified": &types.AttributeValueMemberS{Value: domain.OTPVerified},
			":true":     &types.AttributeValueMemberBOOL{Value: true},
			":now":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
			":expected": &types.AttributeValueMemberS{Value: expectedCode},
		},
	})
	if conditionFailed(err) {
		return fmt.Errorf("otp superseded: %w", domain.ErrConflict)
	}
	return err
}

// ResetPassword replaces the password hash and clears OTP state, but only if
// the stored otp is the VERIFIED sentinel.
func (r *UserRepo) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("user_id", userID),
		UpdateExpression:    aws.String("SET password_hash = :hash, updated_at = :now REMOVE otp, otp_expiry"),
		ConditionExpression: aws.String("otp = :verified"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":hash":     &types.AttributeValueMemberS{Value: passwordHash},
			":now":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
			":verified": &types.AttributeValueMemberS{Value: domain.OTPVerified},
		},
	})
	if conditionFailed(err) {
		return fmt.Errorf("verification required: %w", domain.ErrForbidden)
	}
	return err
}

// ScanPage returns a page of users. cursor is a base64-encoded user_id used
// as ExclusiveStartKey. Returns the items, a next cursor (empty when no more
// pages), and any error.
func (r *UserRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		userID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("user_id", userID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var users []domain.User
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &users); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["user_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return users, nextCursor, nil
}

func encodeCursor(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

func decodeCursor(cursor string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *UserRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}
