package witness

// MockBundle returns a recorded testnet witness: a real deposit transaction
// to the default bridge address carrying an OP_RETURN memo, its single-level
// merkle proof, and the six-block confirmation window it confirmed under.
// The CLIs fall back to it when no input file is given and the tests use it
// as a known-good end-to-end fixture.
func MockBundle() *Bundle {
	return &Bundle{
		MerkleProof: MerkleProofDoc{
			Siblings: []string{
				"cc4522617a92f7b27416f3cedad721949df7aec91d6e87f23ef2895c760e6eee",
			},
			Pos: 1,
		},
		Chains: ChainDoc{
			Blocks: []BlockDoc{
				{
					BlockHash:  "00000000000002ee8b7a2baff6fc9366166d75b97301a68b0eceb3bf60f38d8f",
					Version:    633618432,
					ParentHash: "0000000000000bf53edcfa982a0cbcaab1abf62660ec3ec67149df036891b32b",
					MerkleRoot: "214101dabc8c2b1e02999995163f31b187351c8ac1dad611e2660c2c4cae5ac6",
					Timestamp:  1744638928,
					Difficulty: 437256176,
					Nonce:      4137494058,
				},
				{
					BlockHash:  "00000000000003fd04b9cb97cc0f1ce28a4588d965c595dfb4dbaf9bfd8b2a82",
					Version:    770375680,
					ParentHash: "00000000000002ee8b7a2baff6fc9366166d75b97301a68b0eceb3bf60f38d8f",
					MerkleRoot: "b4ce4f3646fd93a8ffed7711840a09039722919c45ff1beb029d5f3027c32858",
					Timestamp:  1744638928,
					Difficulty: 437256176,
					Nonce:      2932452395,
				},
				{
					BlockHash:  "0000000000000764853fd899f37e85d2765a1ec763dfd8bf2a1e739a9cad370c",
					Version:    710811648,
					ParentHash: "00000000000003fd04b9cb97cc0f1ce28a4588d965c595dfb4dbaf9bfd8b2a82",
					MerkleRoot: "1d065531f64d5662ba174f7533bddd96632d4e530ed9df2b3d1470336f5c9daa",
					Timestamp:  1744638929,
					Difficulty: 437256176,
					Nonce:      2559894718,
				},
				{
					BlockHash:  "0000000000000ef1e4b025cfb3cb6ad42482deaf8551ea2d158c23189483723a",
					Version:    565084160,
					ParentHash: "0000000000000764853fd899f37e85d2765a1ec763dfd8bf2a1e739a9cad370c",
					MerkleRoot: "e4781238e680b8712b32696569a8f7f8a7964612cccb1cc4564c252ba0c545cf",
					Timestamp:  1744638929,
					Difficulty: 437256176,
					Nonce:      2621199785,
				},
				{
					BlockHash:  "00000000000003d773169c1c0dab0a2be623b8b2357b2029d889a3078328ee5f",
					Version:    565624832,
					ParentHash: "0000000000000ef1e4b025cfb3cb6ad42482deaf8551ea2d158c23189483723a",
					MerkleRoot: "e4b951c8dc1318c92de34759d26098c47c0b7562b05949fc741ee80b44a3d665",
					Timestamp:  1744638929,
					Difficulty: 437256176,
					Nonce:      2556017316,
				},
				{
					BlockHash:  "0000000000000d76abee84857450cfec57f49c9a2bc0e5ecbf018dc72bc8bbf7",
					Version:    585113600,
					ParentHash: "00000000000003d773169c1c0dab0a2be623b8b2357b2029d889a3078328ee5f",
					MerkleRoot: "3eae91ae2faac30f4694b548caedab64b41c2147e04e5111f0f5b43de4e39904",
					Timestamp:  1744638929,
					Difficulty: 437256176,
					Nonce:      3028696670,
				},
			},
		},
		BitTxInfo: TxInfoDoc{
			RawTxHex: "010000000001015564819f67c2803761c4370d9a5fd950c8e6ff34d68ebacc47fd21413aa833ea0100000000ffffffff03e8030000000000001600141240e21b1e7877f77bfe66cc59eefb02d17a0a3f00000000000000002c6a2a3078613836456433343742384431303433353333666533306330374663343766334533623834396134329b020000000000001600144cf2f041e4acc16071306ab41414cab4c76cfd5002483045022100bf43ff7d1ae782368550cb14cc916d389277a0f103643fa352ea76ba2ccd731502205028ba84f39deb9ff71db91153c6f71e7f9f5f6df9258c29bb49ec0461785b75012103292a330133c26afde92f10737cc3e38ebcf7403b4e2232c4b65821c1aa55cdf800000000",
		},
		BurnerBtcAddress: "tb1qzfqwyxc70pmlw7l7vmx9nmhmqtgh5z3lp3j9hf",
	}
}
