package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OperationLog 写操作审计记录（上传、重新加载、新增成交、目标变更等）
type OperationLog struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Method         string             `json:"method" bson:"method"`
	Path           string             `json:"path" bson:"path"`
	OperatorID     string             `json:"operatorId" bson:"operatorId"`
	OperatorName   string             `json:"operatorName" bson:"operatorName"`
	OperatorRole   string             `json:"operatorRole" bson:"operatorRole"`
	RequestBody    interface{}        `json:"requestBody,omitempty" bson:"requestBody,omitempty"`
	RequestHeaders interface{}        `json:"requestHeaders,omitempty" bson:"requestHeaders,omitempty"`
	ResponseData   interface{}        `json:"responseData,omitempty" bson:"responseData,omitempty"`
	StatusCode     int                `json:"statusCode" bson:"statusCode"`
	Success        bool               `json:"success" bson:"success"`
	ErrorMessage   string             `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`
	DatasetVersion uint64             `json:"datasetVersion" bson:"datasetVersion"`
	OperationTime  time.Time          `json:"operationTime" bson:"operationTime"`
	ResponseTime   int64              `json:"responseTime" bson:"responseTime"` // 毫秒
	IPAddress      string             `json:"ipAddress" bson:"ipAddress"`
	UserAgent      string             `json:"userAgent" bson:"userAgent"`
}
