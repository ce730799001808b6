package generated

import "github.com/bazaarfly/go-storefront/internal/repository/pgdb/converter"

func NewOutboxEventConverterImpl() converter.OutboxEventConverter {
	return &OutboxEventConverterImpl{}
}
