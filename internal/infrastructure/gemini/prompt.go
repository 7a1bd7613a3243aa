package gemini

import (
	"fmt"
	"strings"

	"github.com/ecofinder/backend/internal/domain"
)

const promptTemplate = `Analyze this product information and suggest 3-5 eco-friendly, organic, or sustainable alternatives:

Product: %s
Category: %s
Price Range: %s
Description: %s
Known eco attributes: %s

Please provide alternatives in this exact JSON format:
{
  "alternatives": [
    {
      "name": "Product Name",
      "description": "Brief eco-friendly description",
      "ecoFeatures": ["feature1", "feature2"],
      "estimatedPrice": "$X-Y",
      "searchQuery": "product name eco organic",
      "amazonSearchUrl": "https://amazon.com/s?k=search+query"
    }
  ]
}

Focus on products that are:
- Organic or made from sustainable materials
- Have minimal environmental impact
- Are biodegradable or recyclable
- Support fair trade or ethical manufacturing
- Have eco-certifications
`

// BuildPrompt renders the instruction sent to the generative API
func BuildPrompt(product *domain.ProductInfo) string {
	attributes := "none detected"
	if len(product.EcoAttributes) > 0 {
		attributes = strings.Join(product.EcoAttributes, ", ")
	}

	prompt := fmt.Sprintf(promptTemplate,
		orUnknown(product.Title),
		orUnknown(product.Category),
		orUnknown(product.Price),
		orUnknown(product.Description),
		attributes,
	)

	if len(product.ImageLabels) > 0 {
		prompt += fmt.Sprintf("\nThe product image shows: %s\n", strings.Join(product.ImageLabels, ", "))
	}
	return prompt
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}
