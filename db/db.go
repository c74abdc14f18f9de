package db

import (
	"os"
	"strconv"

	"github.com/moiramusic/moira/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

const tableName = "moira-pieces"

func endpoint() string {
	if e := os.Getenv("DYNAMO_ENDPOINT"); e != "" {
		return e
	}
	return "http://localhost:8000"
}

func newClient() *dynamodb.DynamoDB {
	ep := endpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &ep,
	})
	if err != nil {
		panic("Could not create a new DynamoDB session because " + err.Error())
	}
	return dynamodb.New(sess)
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v.S != nil {
		return *v.S
	}
	return ""
}

// GetPieceMetadatas batch-fetches metadata for up to 10 piece ids. Ids with
// no stored metadata are simply absent from the result.
func GetPieceMetadatas(ids []string) map[string]model.PieceMetadata {
	if len(ids) > 10 {
		panic("Not supposed to pass in more than 10 piece ids!")
	}

	res := make(map[string]model.PieceMetadata)
	if len(ids) == 0 {
		return res
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, id := range ids {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		})
	}

	client := newClient()
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			tableName: {Keys: keys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}

	for _, item := range dbres.Responses[tableName] {
		var m model.PieceMetadata
		if v, ok := item["Year"]; ok && v.N != nil {
			year, _ := strconv.ParseUint(*v.N, 10, 32)
			m.Year = uint(year)
		}
		m.Title = stringAttr(item, "Title")
		m.Composer = stringAttr(item, "Composer")
		res[stringAttr(item, "PK")] = m
	}

	return res
}

// PutPieceMetadata stores metadata for one piece id.
func PutPieceMetadata(id string, m model.PieceMetadata) {
	item := map[string]*dynamodb.AttributeValue{
		"PK":       {S: aws.String(id)},
		"Title":    {S: aws.String(m.Title)},
		"Composer": {S: aws.String(m.Composer)},
	}
	if m.Year != 0 {
		item["Year"] = &dynamodb.AttributeValue{N: aws.String(strconv.FormatUint(uint64(m.Year), 10))}
	}

	client := newClient()
	input := &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      item,
	}
	if _, err := client.PutItem(input); err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}
}
