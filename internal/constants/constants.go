package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusPickedUp  = "picked_up"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 用户角色常量
const (
	UserRoleCustomer = "customer"
	UserRoleOperator = "store_operator"
	UserRolePartner  = "delivery_partner"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 门店类型常量
const (
	StoreTypePartner          = "partner_store"
	StoreTypeDark             = "dark_store"
	StoreTypeMicroFulfillment = "micro_fulfillment"
)

// 配送车辆类型常量
const (
	VehicleTypeBicycle    = "bicycle"
	VehicleTypeScooter    = "scooter"
	VehicleTypeMotorcycle = "motorcycle"
	VehicleTypeCar        = "car"
)

// 库存状态常量
const (
	StockStatusInStock    = "in_stock"
	StockStatusLowStock   = "low_stock"
	StockStatusOutOfStock = "out_of_stock"
)

// 取消原因常量
const (
	CancelReasonOperator = "cancelled_by_operator"
	CancelReasonTimeout  = "pending_timeout"
)

// 通知类型常量
const (
	NotificationTypeOrderPlaced    = "order_placed"
	NotificationTypeOrderStatus    = "order_status"
	NotificationTypeOrderCancelled = "order_cancelled"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 队列常量
const (
	QueueDefault             = "default"
	TaskOrderStatusNotify    = "order:status_notify"
	TaskOrderPendingTimeout  = "order:pending_timeout"
	TaskNotificationDispatch = "notification:dispatch"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "zc"
)

// 设置键常量
const (
	SettingKeyOrderConfig          = "order_config"
	SettingFieldTaxRate            = "tax_rate"
	SettingFieldDeliveryFee        = "delivery_fee"
	SettingFieldPendingTimeoutMins = "pending_timeout_minutes"
)

// 订单号常量
const (
	OrderNumberPrefix      = "ZC"
	OrderNumberSuffixWidth = 9
)

// 币种常量
const (
	SiteCurrencyDefault = "USD"
)
