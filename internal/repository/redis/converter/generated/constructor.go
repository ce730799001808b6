package generated

import "github.com/bazaarfly/go-storefront/internal/repository/redis/converter"

func NewProductInfoConverterImpl() converter.ProductInfoConverter {
	return &ProductInfoConverterImpl{}
}
