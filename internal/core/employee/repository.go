package employee

import "context"

// Repository は社員永続化の抽象です。
// 住所は社員とともに削除され、スキルと分野は削除されません。
type Repository interface {
	List(ctx context.Context) ([]*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	// FindByIDForUpdate は同一トランザクション内で社員行をロックして取得します。
	FindByIDForUpdate(ctx context.Context, id string) (*Employee, error)
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	// Save は既存社員の住所・スキルを含む全項目を置き換えます。
	Save(ctx context.Context, employee *Employee) (*Employee, error)
	Delete(ctx context.Context, id string) error
}
