package embedding

import "encoding/json"

// VectorToJSON 将向量转换为 JSON 字符串
func VectorToJSON(vector []float64) (string, error) {
	data, err := json.Marshal(vector)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// JSONToVector 将 JSON 字符串转换为向量
func JSONToVector(jsonStr string) ([]float64, error) {
	if jsonStr == "" {
		return nil, nil
	}
	var vector []float64
	if err := json.Unmarshal([]byte(jsonStr), &vector); err != nil {
		return nil, err
	}
	return vector, nil
}
